// workers/roster_backup.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"nird-resistance/models"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Uploader stores an object and returns where it went. utils.R2Client satisfies it.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// RosterSnapshot is the document written by each backup run.
type RosterSnapshot struct {
	ExportedAt time.Time        `json:"exportedAt"`
	Count      int              `json:"count"`
	Warriors   []models.Warrior `json:"warriors"`
}

// RosterBackup exports every warrior with achievements to object storage.
type RosterBackup struct {
	db       *gorm.DB
	uploader Uploader
	logger   *zap.Logger
	now      func() time.Time
}

func NewRosterBackup(db *gorm.DB, uploader Uploader, logger *zap.Logger) *RosterBackup {
	return &RosterBackup{
		db:       db,
		uploader: uploader,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run takes one snapshot and returns its location.
func (b *RosterBackup) Run(ctx context.Context) (string, error) {
	var warriors []models.Warrior
	err := b.db.WithContext(ctx).
		Preload("Achievements", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("join_date ASC").Order("id ASC").
		Find(&warriors).Error
	if err != nil {
		return "", fmt.Errorf("load roster: %w", err)
	}

	now := b.now()
	body, err := json.Marshal(RosterSnapshot{ExportedAt: now, Count: len(warriors), Warriors: warriors})
	if err != nil {
		return "", fmt.Errorf("encode roster: %w", err)
	}

	location, err := b.uploader.Upload(ctx, BackupKey(now), "application/json", body)
	if err != nil {
		return "", err
	}

	b.logger.Info("📦 roster backed up", zap.String("location", location), zap.Int("warriors", len(warriors)))
	return location, nil
}

// BackupKey names a snapshot, e.g. roster/2025-03-01t12-00-00z.json.
func BackupKey(at time.Time) string {
	return "roster/" + slug.Make(at.UTC().Format("2006-01-02T15-04-05Z")) + ".json"
}
