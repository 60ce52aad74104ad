package services

import (
	"testing"
	"time"

	"leaderboard-service/models"
	"leaderboard-service/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(seq uint, player string, score float64, at time.Time) store.ScoreRow {
	return store.ScoreRow{Seq: seq, PlayerName: player, Score: score, Timestamp: at}
}

func TestBuildLeaderboardDescOrdering(t *testing.T) {
	entries := BuildLeaderboard([]store.ScoreRow{
		row(1, "alice", 90, day(1)),
		row(2, "bob", 120, day(1)),
		row(3, "carol", 100, day(1)),
	}, models.SortDesc)

	require.Len(t, entries, 3)
	assert.Equal(t, "bob", entries[0].PlayerName)
	assert.Equal(t, "carol", entries[1].PlayerName)
	assert.Equal(t, "alice", entries[2].PlayerName)
	assert.Equal(t, []int{1, 2, 3}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank})
}

func TestBuildLeaderboardAscOrdering(t *testing.T) {
	entries := BuildLeaderboard([]store.ScoreRow{
		row(1, "alice", 75.5, day(1)),
		row(2, "bob", 62.1, day(1)),
	}, models.SortAsc)

	require.Len(t, entries, 2)
	assert.Equal(t, "bob", entries[0].PlayerName)
	assert.Equal(t, "alice", entries[1].PlayerName)
}

func TestBuildLeaderboardLatestSubmissionWins(t *testing.T) {
	// alice's newer, lower score replaces her earlier high score.
	entries := BuildLeaderboard([]store.ScoreRow{
		row(1, "alice", 150, day(1)),
		row(2, "bob", 100, day(1)),
		row(3, "alice", 80, day(2)),
	}, models.SortDesc)

	require.Len(t, entries, 2)
	assert.Equal(t, "bob", entries[0].PlayerName)
	assert.Equal(t, "alice", entries[1].PlayerName)
	assert.Equal(t, 80.0, entries[1].Score)
}

func TestBuildLeaderboardTieOrdersByEarliestTimestamp(t *testing.T) {
	entries := BuildLeaderboard([]store.ScoreRow{
		row(1, "late", 100, day(3)),
		row(2, "early", 100, day(1)),
	}, models.SortDesc)

	require.Len(t, entries, 2)
	assert.Equal(t, "early", entries[0].PlayerName)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "late", entries[1].PlayerName)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestBuildLeaderboardSameTimestampUsesInsertionOrder(t *testing.T) {
	at := day(1)

	// Two players tied on score and timestamp: first inserted ranks higher.
	entries := BuildLeaderboard([]store.ScoreRow{
		row(1, "first", 100, at),
		row(2, "second", 100, at),
	}, models.SortDesc)
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].PlayerName)
	assert.Equal(t, "second", entries[1].PlayerName)

	// Same player submitting twice at the same instant: the later insert is
	// the current score.
	entries = BuildLeaderboard([]store.ScoreRow{
		row(1, "alice", 50, at),
		row(2, "alice", 70, at),
	}, models.SortDesc)
	require.Len(t, entries, 1)
	assert.Equal(t, 70.0, entries[0].Score)
}

func TestBuildLeaderboardEmpty(t *testing.T) {
	entries := BuildLeaderboard(nil, models.SortDesc)
	assert.Empty(t, entries)
}

func TestParseTimeWindowDateOnlyNormalization(t *testing.T) {
	window, err := ParseTimeWindow("2024-06-01", "2024-06-30")
	require.NoError(t, err)

	require.NotNil(t, window.Start)
	require.NotNil(t, window.End)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), *window.Start)
	assert.Equal(t, time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC), *window.End)
	assert.Equal(t, "2024-06-01 to 2024-06-30", window.Period())
}

func TestParseTimeWindowOpenBounds(t *testing.T) {
	window, err := ParseTimeWindow("", "")
	require.NoError(t, err)
	assert.Nil(t, window.Start)
	assert.Nil(t, window.End)
	assert.Equal(t, "All-time", window.Period())

	window, err = ParseTimeWindow("2024-06-01", "")
	require.NoError(t, err)
	assert.Equal(t, "From 2024-06-01 onwards", window.Period())

	window, err = ParseTimeWindow("", "2024-06-30")
	require.NoError(t, err)
	assert.Equal(t, "Until 2024-06-30", window.Period())
}

func TestParseTimeWindowFullTimestamps(t *testing.T) {
	window, err := ParseTimeWindow("2024-06-01 08:30:00", "2024-06-01T18:00:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC), *window.Start)
	assert.Equal(t, time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC), *window.End)
}

func TestParseTimeWindowInvalid(t *testing.T) {
	_, err := ParseTimeWindow("not-a-date", "")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = ParseTimeWindow("", "2024-13-99")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}
