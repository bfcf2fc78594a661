// services/scoring.go
package services

import (
	"math"
	"strings"

	"nird-resistance/models"
)

// ScoreWeights are the impact-score rules applied at registration and on achievements.
type ScoreWeights struct {
	Base             int
	DonationDivisor  int // donate: + amount / DonationDivisor
	VolunteerBonus   int
	AchievementBonus int
}

var DefaultScoreWeights = ScoreWeights{
	Base:             models.BaseImpactScore,
	DonationDivisor:  10,
	VolunteerBonus:   20,
	AchievementBonus: 50,
}

// ClampScore forces a score into [MinImpactScore, MaxImpactScore].
func ClampScore(score int) int {
	if score < models.MinImpactScore {
		return models.MinImpactScore
	}
	if score > models.MaxImpactScore {
		return models.MaxImpactScore
	}
	return score
}

// ImpactScore derives the registration score for a mission.
func (w ScoreWeights) ImpactScore(mission models.Mission, data models.MissionData) int {
	score := w.Base
	switch mission {
	case models.MissionDonate:
		if amount, ok := parseAmount(data.Amount); ok {
			score += amount / w.DonationDivisor
		}
	case models.MissionVolunteer:
		score += w.VolunteerBonus
	case models.MissionContact, models.MissionInfo:
	}
	return ClampScore(score)
}

// parseAmount reads the integer prefix of a self-reported amount:
// optional leading spaces, an optional sign, then digits. "50€" → 50, "47.9" → 47, "abc" → not ok.
// Values beyond the int range saturate.
func parseAmount(raw string) (int, bool) {
	s := strings.TrimLeft(raw, " \t\r\n")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n, digits := 0, 0
	for ; digits < len(s) && s[digits] >= '0' && s[digits] <= '9'; digits++ {
		d := int(s[digits] - '0')
		if n > (math.MaxInt-d)/10 {
			n = math.MaxInt
			continue
		}
		n = n*10 + d
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
