package models

import (
	"github.com/gosimple/slug"
)

// Badge labels awarded at registration.
const (
	BadgeMessenger      = "🪄 Messager de la Potion Magique"
	BadgeTreasureHero   = "💰 Héros du Trésor"
	BadgeResistantDonor = "🪙 Donateur Résistant"
	BadgeActiveWarrior  = "🛡️ Guerrier Gaulois Actif"
	BadgeDigitalSage    = "📜 Sage Numérique"
	BadgeDefault        = "🛡️ Résistant NIRD"
)

// TreasureHeroAmount is the only donation amount that earns BadgeTreasureHero.
// The comparison is on the raw string, not the number: "50" matches, "50.0" and "100" do not.
const TreasureHeroAmount = "50"

// BadgeFor derives the badge of a new warrior from its mission.
func BadgeFor(mission Mission, data MissionData) string {
	switch mission {
	case MissionContact:
		return BadgeMessenger
	case MissionDonate:
		if data.Amount == TreasureHeroAmount {
			return BadgeTreasureHero
		}
		return BadgeResistantDonor
	case MissionVolunteer:
		return BadgeActiveWarrior
	case MissionInfo:
		return BadgeDigitalSage
	default:
		return BadgeDefault
	}
}

// BadgeCode is a stable ASCII code for a badge label, e.g. "messager-de-la-potion-magique".
func BadgeCode(label string) string {
	return slug.Make(label)
}

// First achievement seeded on every new warrior.
const (
	FirstMissionName        = "First Mission"
	FirstMissionDescription = "Joined the NIRD Resistance"
	FirstMissionIcon        = "🎯"

	DefaultAchievementIcon = "🏅"
)
