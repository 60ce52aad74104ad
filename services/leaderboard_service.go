package services

import (
	"leaderboard-service/models"
	"leaderboard-service/store"
)

// DefaultLeaderboardLimit caps leaderboard responses when the caller does not
// ask for a specific size.
const DefaultLeaderboardLimit = 10

// LeaderboardService answers leaderboard queries. Nothing is precomputed or
// cached: every call re-derives the standing from the score log, so readers
// always see whatever submissions have committed so far.
type LeaderboardService struct {
	Store *store.Store
}

func NewLeaderboardService(st *store.Store) *LeaderboardService {
	return &LeaderboardService{Store: st}
}

// LeaderboardResult is a ranked view of a competition within a time window.
type LeaderboardResult struct {
	Competition  *models.Competition
	Window       TimeWindow
	Entries      []LeaderboardEntry
	TotalResults int
}

// GetLeaderboard computes the current leaderboard for a competition,
// restricted to submissions inside the window. An empty window result is a
// valid empty leaderboard, not an error. limit <= 0 falls back to the
// default.
func (s *LeaderboardService) GetLeaderboard(uniqueID string, window TimeWindow, limit int) (*LeaderboardResult, error) {
	comp, err := s.Store.FindCompetitionByUniqueID(uniqueID)
	if err != nil {
		return nil, internalError(err, "Error fetching leaderboard")
	}
	if comp == nil {
		return nil, notFoundError("Competition not found")
	}

	rows, err := s.Store.ScoreRows(comp.ID, window.Start, window.End)
	if err != nil {
		return nil, internalError(err, "Error fetching leaderboard")
	}

	entries := BuildLeaderboard(rows, comp.SortingOrder)
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return &LeaderboardResult{
		Competition:  comp,
		Window:       window,
		Entries:      entries,
		TotalResults: len(entries),
	}, nil
}
