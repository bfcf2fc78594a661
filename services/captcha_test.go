package services

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func newTestCaptcha(now time.Time) *CaptchaService {
	c := NewCaptchaService("s3cr3t", 5*time.Minute)
	c.now = func() time.Time { return now }
	return c
}

// solve evaluates an issued question.
func solve(t require.TestingT, question string) int {
	parts := strings.Fields(question)
	require.Len(t, parts, 3)
	a, err := strconv.Atoi(parts[0])
	require.NoError(t, err)
	b, err := strconv.Atoi(parts[2])
	require.NoError(t, err)
	switch parts[1] {
	case "+":
		return a + b
	case "-":
		return a - b
	case "×":
		return a * b
	}
	require.Failf(t, "unknown operator", "%q", parts[1])
	return 0
}

func TestCaptchaRoundTrip(t *testing.T) {
	c := newTestCaptcha(epoch)

	ch, err := c.Issue()
	require.NoError(t, err)
	assert.Equal(t, epoch.Add(5*time.Minute), ch.ExpiresAt)
	assert.NoError(t, c.Verify(ch.Token, " "+strconv.Itoa(solve(t, ch.Question))+" "))

	for _, answer := range []func(int) string{
		func(n int) string { return strconv.Itoa(n + 1) },
		func(int) string { return "douze" },
		func(int) string { return "" },
	} {
		ch, err := c.Issue()
		require.NoError(t, err)
		assert.ErrorIs(t, c.Verify(ch.Token, answer(solve(t, ch.Question))), ErrCaptcha)
	}
	assert.ErrorIs(t, c.Verify("", "4"), ErrCaptcha)
}

func TestCaptchaTokenIsSingleUse(t *testing.T) {
	c := newTestCaptcha(epoch)

	ch, err := c.Issue()
	require.NoError(t, err)
	answer := strconv.Itoa(solve(t, ch.Question))

	require.NoError(t, c.Verify(ch.Token, answer))
	err = c.Verify(ch.Token, answer)
	assert.ErrorIs(t, err, ErrCaptcha)
	assert.Contains(t, err.Error(), "already used")
}

func TestCaptchaWrongAnswerSpendsToken(t *testing.T) {
	c := newTestCaptcha(epoch)

	ch, err := c.Issue()
	require.NoError(t, err)
	answer := solve(t, ch.Question)

	assert.ErrorIs(t, c.Verify(ch.Token, strconv.Itoa(answer+1)), ErrCaptcha)
	err = c.Verify(ch.Token, strconv.Itoa(answer))
	assert.ErrorIs(t, err, ErrCaptcha)
	assert.Contains(t, err.Error(), "already used")
}

func TestCaptchaForgetsExpiredNonces(t *testing.T) {
	c := newTestCaptcha(epoch)

	first, err := c.Issue()
	require.NoError(t, err)
	require.NoError(t, c.Verify(first.Token, strconv.Itoa(solve(t, first.Question))))
	assert.Len(t, c.used, 1)

	c.now = func() time.Time { return epoch.Add(10 * time.Minute) }
	second, err := c.Issue()
	require.NoError(t, err)
	require.NoError(t, c.Verify(second.Token, strconv.Itoa(solve(t, second.Question))))
	assert.Len(t, c.used, 1)
}

func TestCaptchaRejectsExpiredToken(t *testing.T) {
	c := newTestCaptcha(epoch)
	ch, err := c.Issue()
	require.NoError(t, err)

	c.now = func() time.Time { return epoch.Add(6 * time.Minute) }
	err = c.Verify(ch.Token, strconv.Itoa(solve(t, ch.Question)))
	assert.ErrorIs(t, err, ErrCaptcha)
	assert.Contains(t, err.Error(), "expired")
}

func TestCaptchaRejectsForeignSecret(t *testing.T) {
	ch, err := newTestCaptcha(epoch).Issue()
	require.NoError(t, err)

	other := NewCaptchaService("another-secret", 5*time.Minute)
	other.now = func() time.Time { return epoch }
	assert.ErrorIs(t, other.Verify(ch.Token, strconv.Itoa(solve(t, ch.Question))), ErrCaptcha)
}

func TestCaptchaQuestionRanges(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := newTestCaptcha(epoch)
		seed := rapid.Uint64().Draw(rt, "seed")
		c.intn = func(n int) int {
			seed = seed*6364136223846793005 + 1442695040888963407
			return int((seed >> 33) % uint64(n))
		}

		ch, err := c.Issue()
		require.NoError(rt, err)
		parts := strings.Fields(ch.Question)
		a, _ := strconv.Atoi(parts[0])
		b, _ := strconv.Atoi(parts[2])

		switch parts[1] {
		case "+":
			assert.True(rt, a >= 1 && a <= 10 && b >= 1 && b <= 10)
		case "-":
			assert.True(rt, b >= 1 && b <= a && a <= 10)
		case "×":
			assert.True(rt, a >= 1 && a <= 5 && b >= 1 && b <= 5)
		default:
			rt.Fatalf("unexpected operator %q", parts[1])
		}
		assert.GreaterOrEqual(rt, solve(rt, ch.Question), 0)
	})
}
