// database/database.go
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nird-resistance/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store owns the single database handle shared by every service.
type Store struct {
	DB     *gorm.DB
	logger *zap.Logger
}

// Options tunes the connection pool.
type Options struct {
	MaxOpenConns int
	MaxIdleConns int
}

// Open connects to Postgres and migrates the schema.
func Open(dsn string, opts Options, log *zap.Logger) (*Store, error) {
	return OpenDialector(postgres.Open(dsn), opts, log)
}

// OpenDialector is Open for an arbitrary gorm dialector.
func OpenDialector(dialector gorm.Dialector, opts Options, log *zap.Logger) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}

	s := &Store{DB: db, logger: log}
	if err := s.Migrate(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the warriors and warrior_achievements tables with their indexes,
// including the unique index on email.
func (s *Store) Migrate() error {
	if err := s.DB.AutoMigrate(&models.Warrior{}, &models.Achievement{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := s.backfillSearchKeys(); err != nil {
		return fmt.Errorf("failed to backfill search keys: %w", err)
	}
	return nil
}

// backfillSearchKeys fills search_key for rows written before the column existed.
func (s *Store) backfillSearchKeys() error {
	var rows []models.Warrior
	return s.DB.Select("id", "name", "email", "village", "badge").
		Where("search_key = ?", "").
		FindInBatches(&rows, 200, func(_ *gorm.DB, _ int) error {
			for _, w := range rows {
				key := models.SearchKey(w.Name, w.Email, w.Village, w.Badge)
				err := s.DB.Model(&models.Warrior{}).Where("id = ?", w.ID).UpdateColumn("search_key", key).Error
				if err != nil {
					return err
				}
			}
			return nil
		}).Error
}

// Ping checks the connection within ctx.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the pool. Safe to call once at shutdown.
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Info("closing database connection")
	}
	return sqlDB.Close()
}

// IsUniqueViolation reports whether err comes from a unique constraint.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "sqlstate 23505")
}
