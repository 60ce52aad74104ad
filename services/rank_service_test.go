package services

import (
	"testing"

	"leaderboard-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRank(t *testing.T) {
	st := newTestStore(t)
	mustCreateCompetition(t, st, "arena", models.SortDesc)
	mustSubmit(t, st, "arena", "alice", 100, day(1))
	mustSubmit(t, st, "arena", "bob", 50, day(1))

	svc := NewRankService(st)

	result, err := svc.GetRank("arena", "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Rank)
	assert.Equal(t, 100.0, result.Score)

	result, err = svc.GetRank("arena", "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Rank)
}

func TestGetRankSharedForEqualScores(t *testing.T) {
	st := newTestStore(t)
	mustCreateCompetition(t, st, "arena", models.SortDesc)
	mustSubmit(t, st, "arena", "alice", 100, day(1))
	mustSubmit(t, st, "arena", "bob", 90, day(1))
	mustSubmit(t, st, "arena", "carol", 90, day(2))

	svc := NewRankService(st)

	bob, err := svc.GetRank("arena", "bob")
	require.NoError(t, err)
	carol, err := svc.GetRank("arena", "carol")
	require.NoError(t, err)
	assert.Equal(t, 2, bob.Rank)
	assert.Equal(t, 2, carol.Rank)
}

func TestGetRankCountsAllSubmissions(t *testing.T) {
	st := newTestStore(t)
	mustCreateCompetition(t, st, "arena", models.SortDesc)
	// alice's superseded 110 still counts against bob's rank.
	mustSubmit(t, st, "arena", "alice", 110, day(1))
	mustSubmit(t, st, "arena", "alice", 90, day(2))
	mustSubmit(t, st, "arena", "bob", 100, day(2))

	result, err := NewRankService(st).GetRank("arena", "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Rank)
}

func TestGetRankAscCompetition(t *testing.T) {
	st := newTestStore(t)
	mustCreateCompetition(t, st, "sprint", models.SortAsc)
	mustSubmit(t, st, "sprint", "fast", 11.2, day(1))
	mustSubmit(t, st, "sprint", "slow", 14.8, day(1))

	result, err := NewRankService(st).GetRank("sprint", "slow")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Rank)
}

func TestGetRankNotFound(t *testing.T) {
	st := newTestStore(t)
	mustCreateCompetition(t, st, "arena", models.SortDesc)
	mustCreateCompetition(t, st, "other", models.SortDesc)
	mustSubmit(t, st, "other", "alice", 10, day(1))
	svc := NewRankService(st)

	_, err := svc.GetRank("missing", "alice")
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = svc.GetRank("arena", "nobody")
	assert.Equal(t, KindNotFound, KindOf(err))

	// Exists globally, no submissions here.
	_, err = svc.GetRank("arena", "alice")
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestGetNeighboursMiddle(t *testing.T) {
	st := newTestStore(t)
	mustCreateCompetition(t, st, "arena", models.SortDesc)
	for i, name := range []string{"p50", "p40", "p30", "p20", "p10"} {
		mustSubmit(t, st, "arena", name, float64(50-10*i), day(1))
	}

	result, err := NewRankService(st).GetNeighbours("arena", "p30", 0)
	require.NoError(t, err)
	assert.Equal(t, "p30", result.Player.PlayerName)
	// Closest first on both sides.
	require.Len(t, result.Above, 2)
	assert.Equal(t, "p40", result.Above[0].PlayerName)
	assert.Equal(t, "p50", result.Above[1].PlayerName)
	require.Len(t, result.Below, 2)
	assert.Equal(t, "p20", result.Below[0].PlayerName)
	assert.Equal(t, "p10", result.Below[1].PlayerName)
}

func TestGetNeighboursAtEdges(t *testing.T) {
	st := newTestStore(t)
	mustCreateCompetition(t, st, "arena", models.SortDesc)
	mustSubmit(t, st, "arena", "top", 30, day(1))
	mustSubmit(t, st, "arena", "mid", 20, day(1))
	mustSubmit(t, st, "arena", "bottom", 10, day(1))

	svc := NewRankService(st)

	result, err := svc.GetNeighbours("arena", "top", 0)
	require.NoError(t, err)
	assert.Empty(t, result.Above)
	require.Len(t, result.Below, 2)

	result, err = svc.GetNeighbours("arena", "bottom", 0)
	require.NoError(t, err)
	require.Len(t, result.Above, 2)
	assert.Empty(t, result.Below)
}

func TestGetNeighboursSkipsTiedScores(t *testing.T) {
	st := newTestStore(t)
	mustCreateCompetition(t, st, "arena", models.SortDesc)
	mustSubmit(t, st, "arena", "better", 40, day(1))
	mustSubmit(t, st, "arena", "target", 30, day(1))
	mustSubmit(t, st, "arena", "tied", 30, day(2))
	mustSubmit(t, st, "arena", "worse", 20, day(1))

	result, err := NewRankService(st).GetNeighbours("arena", "target", 0)
	require.NoError(t, err)
	require.Len(t, result.Above, 1)
	assert.Equal(t, "better", result.Above[0].PlayerName)
	require.Len(t, result.Below, 1)
	assert.Equal(t, "worse", result.Below[0].PlayerName)
}

func TestGetNeighboursUsesLatestScores(t *testing.T) {
	st := newTestStore(t)
	mustCreateCompetition(t, st, "arena", models.SortDesc)
	mustSubmit(t, st, "arena", "alice", 100, day(1))
	mustSubmit(t, st, "arena", "alice", 10, day(2))
	mustSubmit(t, st, "arena", "bob", 50, day(1))

	result, err := NewRankService(st).GetNeighbours("arena", "bob", 0)
	require.NoError(t, err)
	// alice's current score is 10, so she sits below bob.
	assert.Empty(t, result.Above)
	require.Len(t, result.Below, 1)
	assert.Equal(t, "alice", result.Below[0].PlayerName)
	assert.Equal(t, 10.0, result.Below[0].Score)
}

func TestGetNeighboursNotFound(t *testing.T) {
	st := newTestStore(t)
	mustCreateCompetition(t, st, "arena", models.SortDesc)
	svc := NewRankService(st)

	_, err := svc.GetNeighbours("missing", "alice", 0)
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = svc.GetNeighbours("arena", "nobody", 0)
	assert.Equal(t, KindNotFound, KindOf(err))
}
