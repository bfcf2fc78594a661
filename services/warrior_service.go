// services/warrior_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nird-resistance/database"
	"nird-resistance/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CaptchaVerifier checks a server-issued challenge answer.
type CaptchaVerifier interface {
	Verify(token, answer string) error
}

// CreateWarriorInput is a registration submission.
type CreateWarriorInput struct {
	Name        string             `json:"name" validate:"required,min=2,max=50"`
	Email       string             `json:"email" validate:"required,max=254,email"`
	Mission     models.Mission     `json:"mission" validate:"required,mission"`
	MissionData models.MissionData `json:"missionData"`

	CaptchaToken  string `json:"captchaToken,omitempty" validate:"-"`
	CaptchaAnswer string `json:"captchaAnswer,omitempty" validate:"-"`
}

// UpdateWarriorInput is a partial profile update: nil fields are left unchanged.
type UpdateWarriorInput struct {
	Name    *string               `json:"name"`
	Village *models.Village       `json:"village"`
	Status  *models.WarriorStatus `json:"status"`
}

// AchievementInput describes a new achievement. Icon defaults to DefaultAchievementIcon.
type AchievementInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Icon        string `json:"icon" validate:"max=16"`
}

// WarriorService owns registration, scoring and every write to the warriors table.
type WarriorService struct {
	DB      *gorm.DB
	Weights ScoreWeights
	Captcha CaptchaVerifier // nil disables the challenge
	Logger  *zap.Logger
	Now     func() time.Time
}

func NewWarriorService(db *gorm.DB, logger *zap.Logger) *WarriorService {
	return &WarriorService{
		DB:      db,
		Weights: DefaultScoreWeights,
		Logger:  logger,
		Now:     func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// CreateWarrior registers a participant: rejects duplicate emails, derives badge and
// impact score, seeds the first achievement and stores the record.
func (s *WarriorService) CreateWarrior(ctx context.Context, in CreateWarriorInput) (*models.Warrior, error) {
	in.Name = normalizeName(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(&in); err != nil {
		return nil, err
	}
	if s.Captcha != nil {
		if err := s.Captcha.Verify(in.CaptchaToken, in.CaptchaAnswer); err != nil {
			return nil, &ValidationError{
				Fields: []FieldError{{Field: "captchaAnswer", Message: ErrCaptcha.Error()}},
				cause:  err,
			}
		}
	}

	// The unique index is the real guarantee; this only avoids a doomed insert.
	var existing int64
	if err := s.DB.WithContext(ctx).Model(&models.Warrior{}).Where("email = ?", in.Email).Count(&existing).Error; err != nil {
		return nil, storageError("check email", err)
	}
	if existing > 0 {
		s.Logger.Warn("duplicate registration rejected", zap.String("email", in.Email))
		return nil, ErrDuplicateEmail
	}

	now := s.Now()
	data := normalizeMissionData(in.Mission, in.MissionData)
	warrior := &models.Warrior{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		Mission:      in.Mission,
		MissionData:  datatypes.NewJSONType(data),
		Badge:        models.BadgeFor(in.Mission, data),
		ImpactScore:  s.Weights.ImpactScore(in.Mission, data),
		Status:       models.StatusActive,
		Village:      models.VillagePrincipal,
		JoinDate:     now,
		LastActivity: now,
		Achievements: []models.Achievement{{
			Name:        models.FirstMissionName,
			Description: models.FirstMissionDescription,
			Icon:        models.FirstMissionIcon,
			Date:        now,
		}},
	}

	if err := s.DB.WithContext(ctx).Create(warrior).Error; err != nil {
		if database.IsUniqueViolation(err) {
			s.Logger.Warn("duplicate registration lost insert race", zap.String("email", in.Email))
			return nil, ErrDuplicateEmail
		}
		s.Logger.Error("failed to create warrior", zap.Error(err))
		return nil, storageError("create warrior", err)
	}

	s.Logger.Info("🛡️ warrior joined",
		zap.String("id", warrior.ID),
		zap.String("mission", string(warrior.Mission)),
		zap.String("badge", warrior.Badge),
		zap.Int("impact_score", warrior.ImpactScore),
	)
	return warrior, nil
}

// GetWarrior loads a warrior with its achievements in insertion order.
func (s *WarriorService) GetWarrior(ctx context.Context, id string) (*models.Warrior, error) {
	return findWarrior(s.DB.WithContext(ctx), id)
}

// UpdateWarrior applies the provided fields and bumps lastActivity.
func (s *WarriorService) UpdateWarrior(ctx context.Context, id string, in UpdateWarriorInput) (*models.Warrior, error) {
	updates := map[string]any{}
	if in.Name != nil {
		name := normalizeName(*in.Name)
		if err := validate.Var(name, "required,min=2,max=50"); err != nil {
			return nil, invalidField("name", "Name must be between 2 and 50 characters")
		}
		updates["name"] = name
	}
	if in.Village != nil {
		if !in.Village.Valid() {
			return nil, invalidField("village", "village must be one of Principal, Nord, Sud, Est, Ouest, Central")
		}
		updates["village"] = *in.Village
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, invalidField("status", "status must be one of active, inactive, veteran")
		}
		updates["status"] = *in.Status
	}

	var updated *models.Warrior
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findWarrior(tx, id)
		if err != nil {
			return err
		}

		now := s.Now()
		if now.Before(current.JoinDate) {
			now = current.JoinDate
		}
		updates["last_activity"] = now

		name, village := current.Name, current.Village
		if v, ok := updates["name"].(string); ok {
			name = v
		}
		if v, ok := updates["village"].(models.Village); ok {
			village = v
		}
		updates["search_key"] = models.SearchKey(name, current.Email, village, current.Badge)

		res := tx.Model(&models.Warrior{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return storageError("update warrior", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		updated, err = findWarrior(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("warrior updated", zap.String("id", id), zap.Int("fields", len(updates)-2))
	return updated, nil
}

// DeleteWarrior hard-deletes a warrior and its achievements.
func (s *WarriorService) DeleteWarrior(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("warrior_id = ?", id).Delete(&models.Achievement{}).Error; err != nil {
			return storageError("delete achievements", err)
		}
		res := tx.Where("id = ?", id).Delete(&models.Warrior{})
		if res.Error != nil {
			return storageError("delete warrior", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.Logger.Info("warrior removed from resistance", zap.String("id", id))
	return nil
}

// AddAchievement appends an achievement and raises the impact score by the achievement
// bonus, capped at MaxImpactScore. The increment is a single SQL update.
func (s *WarriorService) AddAchievement(ctx context.Context, id string, in AchievementInput) (*models.Achievement, error) {
	if err := validateStruct(&in); err != nil {
		return nil, err
	}
	if in.Icon == "" {
		in.Icon = models.DefaultAchievementIcon
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	achievement := &models.Achievement{
		WarriorID:   id,
		Name:        in.Name,
		Description: in.Description,
		Icon:        in.Icon,
		Date:        s.Now(),
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Warrior{}).Where("id = ?", id).
			Update("impact_score", gorm.Expr(clampedIncrement, s.Weights.AchievementBonus, s.Weights.AchievementBonus, s.Weights.AchievementBonus))
		if res.Error != nil {
			return storageError("increment impact score", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Create(achievement).Error; err != nil {
			return storageError("append achievement", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("🎉 achievement unlocked",
		zap.String("warrior_id", id),
		zap.String("achievement", achievement.Name),
	)
	return achievement, nil
}

// clampedIncrement adds ? to impact_score inside [MinImpactScore, MaxImpactScore].
var clampedIncrement = fmt.Sprintf(
	"CASE WHEN impact_score + ? > %[2]d THEN %[2]d WHEN impact_score + ? < %[1]d THEN %[1]d ELSE impact_score + ? END",
	models.MinImpactScore, models.MaxImpactScore,
)

func findWarrior(db *gorm.DB, id string) (*models.Warrior, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	var w models.Warrior
	err := db.Preload("Achievements", orderAchievements).First(&w, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageError("find warrior", err)
	}
	return &w, nil
}

func orderAchievements(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}
