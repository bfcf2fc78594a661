// services/seed.go
package services

import (
	"context"
	"time"

	"nird-resistance/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedWarrior is a preset record: badge and score are stored as given, not derived.
type SeedWarrior struct {
	Name         string
	Email        string
	Mission      models.Mission
	Badge        string
	ImpactScore  int
	Village      models.Village
	Achievements []models.Achievement
}

var SampleWarriors = []SeedWarrior{
	{
		Name:        "Astérix Gaulois",
		Email:       "asterix@village-gaulois.fr",
		Mission:     models.MissionContact,
		Badge:       "🛡️ Chef de la Résistance",
		ImpactScore: 250,
		Village:     models.VillagePrincipal,
		Achievements: []models.Achievement{
			{Name: "Leader Natoque", Description: "Fondateur de la résistance", Icon: "👑"},
		},
	},
	{
		Name:        "Obélix Tailleur",
		Email:       "obelix@village-gaulois.fr",
		Mission:     models.MissionVolunteer,
		Badge:       models.BadgeActiveWarrior,
		ImpactScore: 180,
		Village:     models.VillageNord,
		Achievements: []models.Achievement{
			{Name: "Reconditionneur", Description: "A redonné vie à 20 ordinateurs", Icon: "🪨"},
		},
	},
	{
		Name:        "Panoramix Druide",
		Email:       "panoramix@village-gaulois.fr",
		Mission:     models.MissionInfo,
		Badge:       models.BadgeDigitalSage,
		ImpactScore: 220,
		Village:     models.VillageCentral,
		Achievements: []models.Achievement{
			{Name: "Potion Libre", Description: "A installé Linux dans trois écoles", Icon: "🧪"},
		},
	},
	{
		Name:        "Bonemine Cheffe",
		Email:       "bonemine@village-gaulois.fr",
		Mission:     models.MissionDonate,
		Badge:       models.BadgeTreasureHero,
		ImpactScore: 150,
		Village:     models.VillageSud,
	},
}

// SeedWarriors wipes every warrior and inserts the given presets in one transaction.
func SeedWarriors(ctx context.Context, db *gorm.DB, presets []SeedWarrior, logger *zap.Logger) (int, error) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Achievement{}).Error; err != nil {
			return storageError("clear achievements", err)
		}
		if err := tx.Where("1 = 1").Delete(&models.Warrior{}).Error; err != nil {
			return storageError("clear warriors", err)
		}
		logger.Info("🗑️ warriors cleared")

		for i, p := range presets {
			// one second apart so joinDate ordering is deterministic
			joined := now.Add(time.Duration(i-len(presets)) * time.Second)
			achievements := make([]models.Achievement, 0, len(p.Achievements))
			for _, a := range p.Achievements {
				if a.Icon == "" {
					a.Icon = models.DefaultAchievementIcon
				}
				a.ID = 0
				a.Date = joined
				achievements = append(achievements, a)
			}
			w := &models.Warrior{
				ID:           uuid.NewString(),
				Name:         normalizeName(p.Name),
				Email:        normalizeEmail(p.Email),
				Mission:      p.Mission,
				MissionData:  datatypes.NewJSONType(models.MissionData{}),
				Badge:        p.Badge,
				ImpactScore:  ClampScore(p.ImpactScore),
				Status:       models.StatusActive,
				Village:      p.Village,
				JoinDate:     joined,
				LastActivity: joined,
				Achievements: achievements,
			}
			if w.Village == "" {
				w.Village = models.VillagePrincipal
			}
			if err := tx.Create(w).Error; err != nil {
				return storageError("insert preset "+p.Email, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info("✅ warriors seeded", zap.Int("count", len(presets)))
	return len(presets), nil
}
