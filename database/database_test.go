package database

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"nird-resistance/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	store, err := OpenDialector(sqlite.Open(dsn), Options{MaxOpenConns: 1}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenMigratesAndPings(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Ping(context.Background()))
	assert.True(t, store.DB.Migrator().HasTable(&models.Warrior{}))
	assert.True(t, store.DB.Migrator().HasTable(&models.Achievement{}))
}

func TestEmailUniqueIndex(t *testing.T) {
	store := openTestStore(t)
	now := time.Now().UTC()

	newWarrior := func() *models.Warrior {
		return &models.Warrior{
			ID:           uuid.NewString(),
			Name:         "Obélix",
			Email:        "obelix@village.fr",
			Mission:      models.MissionVolunteer,
			Badge:        models.BadgeActiveWarrior,
			ImpactScore:  30,
			Status:       models.StatusActive,
			Village:      models.VillagePrincipal,
			JoinDate:     now,
			LastActivity: now,
		}
	}

	require.NoError(t, store.DB.Create(newWarrior()).Error)
	err := store.DB.Create(newWarrior()).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, IsUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint "idx_warriors_email" (SQLSTATE 23505)`)))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
}

func TestCloseStopsPing(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	store, err := OpenDialector(sqlite.Open(dsn), Options{}, nil)
	require.NoError(t, err)

	require.NoError(t, store.Close())
	assert.Error(t, store.Ping(context.Background()))
}

func TestMigrateBackfillsSearchKey(t *testing.T) {
	store := openTestStore(t)
	now := time.Now().UTC()

	w := &models.Warrior{
		ID:           uuid.NewString(),
		Name:         "Émile Gaulois",
		Email:        "emile@village.fr",
		Mission:      models.MissionInfo,
		Badge:        models.BadgeActiveWarrior,
		ImpactScore:  10,
		Status:       models.StatusActive,
		Village:      models.VillageNord,
		JoinDate:     now,
		LastActivity: now,
	}
	require.NoError(t, store.DB.Create(w).Error)
	require.NoError(t, store.DB.Model(&models.Warrior{}).Where("id = ?", w.ID).UpdateColumn("search_key", "").Error)

	require.NoError(t, store.Migrate())

	var got models.Warrior
	require.NoError(t, store.DB.First(&got, "id = ?", w.ID).Error)
	assert.Equal(t, models.SearchKey(w.Name, w.Email, w.Village, w.Badge), got.SearchKey)
	assert.Contains(t, got.SearchKey, "émile gaulois")
}
