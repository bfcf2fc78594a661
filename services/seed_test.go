package services

import (
	"context"
	"testing"

	"nird-resistance/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSeedWarriorsReplacesRoster(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	insertWarrior(t, db, warriorFixture{name: "Brutus", email: "brutus@rome.it", score: 999})

	n, err := SeedWarriors(ctx, db, SampleWarriors, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, len(SampleWarriors), n)

	// seeding twice does not duplicate
	_, err = SeedWarriors(ctx, db, SampleWarriors, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, int64(len(SampleWarriors)), countWarriors(t, db))

	board, err := NewQueryService(db, testGoals).Leaderboard(ctx, 1)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, "Astérix Gaulois", board[0].Name)
	assert.Equal(t, 250, board[0].ImpactScore)
	assert.Contains(t, board[0].Badge, "Chef de la Résistance")

	var w models.Warrior
	require.NoError(t, db.Preload("Achievements").First(&w, "email = ?", "asterix@village-gaulois.fr").Error)
	require.Len(t, w.Achievements, 1)
	assert.Equal(t, "Leader Natoque", w.Achievements[0].Name)
}
