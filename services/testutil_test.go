package services

import (
	"testing"
	"time"

	"leaderboard-service/models"
	"leaderboard-service/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestStore opens a fresh in-memory database per test. The named
// shared-cache DSN keeps the database alive across gorm's pooled
// connections.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Competition{},
		&models.Player{},
		&models.Score{},
		&models.Snapshot{},
		&models.PlayerHistory{},
	))
	return store.New(db)
}

func mustCreateCompetition(t *testing.T, st *store.Store, uniqueID, sortingOrder string) *models.Competition {
	t.Helper()
	comp, err := NewCompetitionService(st).Create(CreateCompetitionInput{
		Name:         "Test " + uniqueID,
		UniqueID:     uniqueID,
		SortingOrder: sortingOrder,
	})
	require.NoError(t, err)
	return comp
}

func mustSubmit(t *testing.T, st *store.Store, uniqueID, playerName string, score float64, at time.Time) {
	t.Helper()
	_, err := NewScoreService(st).Submit(uniqueID, SubmitScoreInput{
		PlayerName: playerName,
		Score:      score,
		Timestamp:  &at,
	})
	require.NoError(t, err)
}

func day(n int) time.Time {
	return time.Date(2024, 6, n, 12, 0, 0, 0, time.UTC)
}
