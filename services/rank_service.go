package services

import (
	"leaderboard-service/store"
)

// DefaultNeighbourCount is how many players are returned on each side of the
// target by GetNeighbours.
const DefaultNeighbourCount = 2

// RankService answers single-player standing queries without materializing
// the full leaderboard response.
type RankService struct {
	Store *store.Store
}

func NewRankService(st *store.Store) *RankService {
	return &RankService{Store: st}
}

// RankResult is a single player's current rank.
type RankResult struct {
	CompetitionID string  `json:"competition_id"`
	PlayerName    string  `json:"player_name"`
	Score         float64 `json:"score"`
	Rank          int     `json:"rank"`
}

// GetRank computes a player's rank from their latest submission as
// 1 + count(distinct scores strictly better). Players holding the same score
// report the same rank, unlike the leaderboard view, which breaks those ties
// by time. Both projections are kept as-is.
func (s *RankService) GetRank(uniqueID, playerName string) (*RankResult, error) {
	comp, err := s.Store.FindCompetitionByUniqueID(uniqueID)
	if err != nil {
		return nil, internalError(err, "Error fetching rank")
	}
	if comp == nil {
		return nil, notFoundError("Competition not found")
	}

	player, err := s.Store.FindPlayerByName(playerName)
	if err != nil {
		return nil, internalError(err, "Error fetching rank")
	}
	if player == nil {
		return nil, notFoundError("Player not found or has no score.")
	}
	scores, err := s.Store.PlayerScores(comp.ID, player.ID)
	if err != nil {
		return nil, internalError(err, "Error fetching rank")
	}
	if len(scores) == 0 {
		return nil, notFoundError("Player not found or has no score.")
	}
	latest := scores[0].Score

	better, err := s.Store.CountDistinctBetterScores(comp.ID, latest, comp.SortingOrder)
	if err != nil {
		return nil, internalError(err, "Error fetching rank")
	}
	return &RankResult{
		CompetitionID: uniqueID,
		PlayerName:    playerName,
		Score:         latest,
		Rank:          int(better) + 1,
	}, nil
}

// NeighbourEntry is one player adjacent to the target in the standings.
type NeighbourEntry struct {
	PlayerName string  `json:"player_name"`
	Score      float64 `json:"score"`
}

// NeighboursResult holds the players immediately better and worse than the
// target, each list ordered closest first.
type NeighboursResult struct {
	CompetitionID string           `json:"competition_id"`
	Player        NeighbourEntry   `json:"player"`
	Above         []NeighbourEntry `json:"above_players"`
	Below         []NeighbourEntry `json:"below_players"`
}

// GetNeighbours returns up to k players strictly better than the target and
// up to k strictly worse, using each player's latest submission. Players tied
// with the target's score are on neither list; the comparison is strict.
// The top-ranked player gets an empty above list; the last-placed player an
// empty below list.
func (s *RankService) GetNeighbours(uniqueID, playerName string, k int) (*NeighboursResult, error) {
	if k <= 0 {
		k = DefaultNeighbourCount
	}
	comp, err := s.Store.FindCompetitionByUniqueID(uniqueID)
	if err != nil {
		return nil, internalError(err, "Error fetching player neighbours")
	}
	if comp == nil {
		return nil, notFoundError("Competition not found.")
	}

	rows, err := s.Store.ScoreRows(comp.ID, nil, nil)
	if err != nil {
		return nil, internalError(err, "Error fetching player neighbours")
	}
	standings := BuildLeaderboard(rows, comp.SortingOrder)

	targetIdx := -1
	for i, entry := range standings {
		if entry.PlayerName == playerName {
			targetIdx = i
			break
		}
	}
	if targetIdx == -1 {
		return nil, notFoundError("Player %s not found in this competition.", playerName)
	}
	target := standings[targetIdx]

	// Walk outwards from the target. The leaderboard keeps one entry per
	// player, so deduplication is inherent; equal scores are skipped because
	// "better"/"worse" are strict.
	above := make([]NeighbourEntry, 0, k)
	for i := targetIdx - 1; i >= 0 && len(above) < k; i-- {
		if standings[i].Score == target.Score {
			continue
		}
		above = append(above, NeighbourEntry{PlayerName: standings[i].PlayerName, Score: standings[i].Score})
	}
	below := make([]NeighbourEntry, 0, k)
	for i := targetIdx + 1; i < len(standings) && len(below) < k; i++ {
		if standings[i].Score == target.Score {
			continue
		}
		below = append(below, NeighbourEntry{PlayerName: standings[i].PlayerName, Score: standings[i].Score})
	}

	return &NeighboursResult{
		CompetitionID: uniqueID,
		Player:        NeighbourEntry{PlayerName: target.PlayerName, Score: target.Score},
		Above:         above,
		Below:         below,
	}, nil
}
