// services/captcha.go
package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Challenge is an arithmetic question plus the signed token that proves it was issued here.
type Challenge struct {
	Token     string    `json:"token"`
	Question  string    `json:"question"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type captchaClaims struct {
	Digest string `json:"dig"`
	jwt.RegisteredClaims
}

// CaptchaService issues and verifies arithmetic challenges. The answer never leaves the
// server in clear: the token carries HMAC(secret, nonce|answer). Each token is good for
// one Verify call; spent nonces are remembered until the token would have expired.
type CaptchaService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	intn   func(n int) int

	mu   sync.Mutex
	used map[string]time.Time
}

func NewCaptchaService(secret string, ttl time.Duration) *CaptchaService {
	return &CaptchaService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		intn:   rand.IntN,
		used:   make(map[string]time.Time),
	}
}

// Issue draws a new question: a+b with a,b in [1,10], a-b with 1 <= b <= a <= 10,
// or a×b with a,b in [1,5].
func (s *CaptchaService) Issue() (*Challenge, error) {
	var question string
	var answer int
	switch s.intn(3) {
	case 0:
		a, b := s.intn(10)+1, s.intn(10)+1
		question, answer = fmt.Sprintf("%d + %d", a, b), a+b
	case 1:
		a := s.intn(10) + 1
		b := s.intn(a) + 1
		question, answer = fmt.Sprintf("%d - %d", a, b), a-b
	default:
		a, b := s.intn(5)+1, s.intn(5)+1
		question, answer = fmt.Sprintf("%d × %d", a, b), a*b
	}

	now := s.now()
	nonce := uuid.NewString()
	expires := now.Add(s.ttl)
	claims := captchaClaims{
		Digest: s.digest(nonce, strconv.Itoa(answer)),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        nonce,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign captcha: %w", err)
	}
	return &Challenge{Token: token, Question: question, ExpiresAt: expires}, nil
}

// Verify checks the token signature and expiry, spends its nonce, then checks the answer.
// A wrong answer still spends the token.
func (s *CaptchaService) Verify(token, answer string) error {
	answer = strings.TrimSpace(answer)
	if token == "" || answer == "" {
		return fmt.Errorf("%w: missing token or answer", ErrCaptcha)
	}

	var claims captchaClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return fmt.Errorf("%w: challenge expired", ErrCaptcha)
		}
		return fmt.Errorf("%w: %w", ErrCaptcha, err)
	}
	if !s.spend(claims.ID, claims.ExpiresAt.Time) {
		return fmt.Errorf("%w: challenge already used", ErrCaptcha)
	}

	n, err := strconv.Atoi(answer)
	if err != nil {
		return fmt.Errorf("%w: answer is not a number", ErrCaptcha)
	}
	want, _ := hex.DecodeString(claims.Digest)
	got, _ := hex.DecodeString(s.digest(claims.ID, strconv.Itoa(n)))
	if !hmac.Equal(want, got) {
		return fmt.Errorf("%w: wrong answer", ErrCaptcha)
	}
	return nil
}

// spend records nonce as used and reports whether it was fresh. Expired entries are
// pruned on the way, so the set never outgrows the tokens still in flight.
func (s *CaptchaService) spend(nonce string, expires time.Time) bool {
	if nonce == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, exp := range s.used {
		if !exp.After(now) {
			delete(s.used, id)
		}
	}
	if _, seen := s.used[nonce]; seen {
		return false
	}
	s.used[nonce] = expires
	return true
}

func (s *CaptchaService) digest(nonce, answer string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(nonce + "|" + answer))
	return hex.EncodeToString(mac.Sum(nil))
}
