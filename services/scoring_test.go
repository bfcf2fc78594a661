package services

import (
	"strconv"
	"testing"

	"nird-resistance/models"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestImpactScore(t *testing.T) {
	w := DefaultScoreWeights
	tests := []struct {
		name    string
		mission models.Mission
		data    models.MissionData
		want    int
	}{
		{"contact", models.MissionContact, models.MissionData{Message: "hello"}, 10},
		{"info", models.MissionInfo, models.MissionData{}, 10},
		{"volunteer", models.MissionVolunteer, models.MissionData{Skills: []string{"linux"}}, 30},
		{"volunteer without skills", models.MissionVolunteer, models.MissionData{}, 30},
		{"donate 47", models.MissionDonate, models.MissionData{Amount: "47"}, 14},
		{"donate 50", models.MissionDonate, models.MissionData{Amount: "50"}, 15},
		{"donate 9", models.MissionDonate, models.MissionData{Amount: "9"}, 10},
		{"donate with currency", models.MissionDonate, models.MissionData{Amount: "120€"}, 22},
		{"donate decimal", models.MissionDonate, models.MissionData{Amount: "47.9"}, 14},
		{"donate not a number", models.MissionDonate, models.MissionData{Amount: "beaucoup"}, 10},
		{"donate empty", models.MissionDonate, models.MissionData{}, 10},
		{"donate negative truncates toward zero", models.MissionDonate, models.MissionData{Amount: "-5"}, 10},
		{"donate negative clamps at zero", models.MissionDonate, models.MissionData{Amount: "-500"}, 0},
		{"donate huge clamps", models.MissionDonate, models.MissionData{Amount: "100000"}, 1000},
		{"donate overflow saturates", models.MissionDonate, models.MissionData{Amount: "99999999999999999999999999"}, 1000},
		{"unknown mission", models.Mission("party"), models.MissionData{Amount: "500"}, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.ImpactScore(tt.mission, tt.data))
		})
	}
}

func TestParseAmount(t *testing.T) {
	n, ok := parseAmount("  +30 euros")
	assert.True(t, ok)
	assert.Equal(t, 30, n)

	_, ok = parseAmount("€30")
	assert.False(t, ok)

	_, ok = parseAmount("-")
	assert.False(t, ok)
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, ClampScore(-1))
	assert.Equal(t, 1000, ClampScore(1001))
	assert.Equal(t, 420, ClampScore(420))
}

func TestImpactScoreProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		mission := rapid.SampledFrom(models.Missions).Draw(t, "mission")
		amount := rapid.String().Draw(t, "amount")

		score := DefaultScoreWeights.ImpactScore(mission, models.MissionData{Amount: amount})
		if score < models.MinImpactScore || score > models.MaxImpactScore {
			t.Fatalf("score %d out of range", score)
		}
		if mission != models.MissionDonate {
			want := 10
			if mission == models.MissionVolunteer {
				want = 30
			}
			if score != want {
				t.Fatalf("mission %s: got %d, want %d", mission, score, want)
			}
		}
	})
}

func TestDonationScoreProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		amount := rapid.IntRange(0, 20000).Draw(t, "amount")

		got := DefaultScoreWeights.ImpactScore(models.MissionDonate, models.MissionData{Amount: strconv.Itoa(amount)})
		want := ClampScore(10 + amount/10)
		if got != want {
			t.Fatalf("amount %d: got %d, want %d", amount, got, want)
		}
	})
}

func TestBadgeOnlyLiteralFifty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		amount := rapid.String().Draw(t, "amount")

		badge := models.BadgeFor(models.MissionDonate, models.MissionData{Amount: amount})
		if amount == "50" {
			if badge != models.BadgeTreasureHero {
				t.Fatalf("amount 50 should earn the treasure hero badge")
			}
			return
		}
		if badge != models.BadgeResistantDonor {
			t.Fatalf("amount %q: got %q", amount, badge)
		}
	})
}
