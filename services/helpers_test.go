package services

import (
	"fmt"
	"testing"
	"time"

	"nird-resistance/database"
	"nird-resistance/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var epoch = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	store, err := database.OpenDialector(sqlite.Open(dsn), database.Options{MaxOpenConns: 1}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.DB
}

// fixedClock returns a clock that advances one second per call.
func fixedClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		t := now
		now = now.Add(time.Second)
		return t
	}
}

func newTestWarriorService(t *testing.T) *WarriorService {
	t.Helper()
	svc := NewWarriorService(openTestDB(t), zap.NewNop())
	svc.Now = fixedClock(epoch)
	return svc
}

type warriorFixture struct {
	name    string
	email   string
	mission models.Mission
	score   int
	village models.Village
	status  models.WarriorStatus
	joined  time.Time
}

func insertWarrior(t *testing.T, db *gorm.DB, f warriorFixture) *models.Warrior {
	t.Helper()
	if f.mission == "" {
		f.mission = models.MissionContact
	}
	if f.village == "" {
		f.village = models.VillagePrincipal
	}
	if f.status == "" {
		f.status = models.StatusActive
	}
	if f.joined.IsZero() {
		f.joined = epoch
	}
	w := &models.Warrior{
		ID:           uuid.NewString(),
		Name:         f.name,
		Email:        f.email,
		Mission:      f.mission,
		MissionData:  datatypes.NewJSONType(models.MissionData{}),
		Badge:        models.BadgeFor(f.mission, models.MissionData{}),
		ImpactScore:  f.score,
		Status:       f.status,
		Village:      f.village,
		JoinDate:     f.joined,
		LastActivity: f.joined,
	}
	require.NoError(t, db.Create(w).Error)
	return w
}

func countWarriors(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Warrior{}).Count(&n).Error)
	return n
}
