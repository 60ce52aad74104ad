package services

import (
	"strconv"
	"strings"
	"time"

	"leaderboard-service/models"
	"leaderboard-service/store"
)

// ScoreService owns the append-only score log: submissions and per-player
// submission history.
type ScoreService struct {
	Store *store.Store
}

func NewScoreService(st *store.Store) *ScoreService {
	return &ScoreService{Store: st}
}

// SubmitScoreInput is the plain input for Submit. Score is an untyped JSON
// value: numbers and numeric strings are accepted, anything else is a
// validation failure. Timestamp defaults to submission time.
type SubmitScoreInput struct {
	PlayerName string
	Score      interface{}
	Timestamp  *time.Time
}

// SubmitResult echoes the recorded submission.
type SubmitResult struct {
	PlayerName string    `json:"player_name"`
	Score      float64   `json:"score"`
	Timestamp  time.Time `json:"timestamp"`
}

// Submit appends one score submission, creating the player on first sight.
// Existing submissions are never mutated: a player's history of attempts is
// the data, the leaderboard is a projection over it.
func (s *ScoreService) Submit(uniqueID string, in SubmitScoreInput) (*SubmitResult, error) {
	if in.PlayerName == "" || in.Score == nil {
		return nil, validationError("Missing player_name or score.")
	}
	value, err := parseScoreValue(in.Score)
	if err != nil {
		return nil, validationError("Score must be a number.")
	}

	comp, err := s.Store.FindCompetitionByUniqueID(uniqueID)
	if err != nil {
		return nil, internalError(err, "Error submitting score")
	}
	if comp == nil {
		return nil, notFoundError("Competition not found.")
	}

	player, err := s.Store.EnsurePlayer(in.PlayerName)
	if err != nil {
		return nil, internalError(err, "Error submitting score")
	}

	timestamp := time.Now()
	if in.Timestamp != nil {
		timestamp = *in.Timestamp
	}
	score := &models.Score{
		CompetitionID: comp.ID,
		PlayerID:      player.ID,
		Score:         value,
		Timestamp:     timestamp,
	}
	if err := s.Store.InsertScore(score); err != nil {
		return nil, internalError(err, "Error submitting score")
	}
	return &SubmitResult{PlayerName: player.Name, Score: value, Timestamp: timestamp}, nil
}

// ScoreAttempt is one submission in a player's history, numbered newest
// first.
type ScoreAttempt struct {
	Submission int       `json:"submission"`
	Score      float64   `json:"score"`
	Timestamp  time.Time `json:"timestamp"`
}

// ScoreHistoryResult is a player's full submission history in one
// competition.
type ScoreHistoryResult struct {
	CompetitionID   string         `json:"competition_id"`
	PlayerName      string         `json:"player_name"`
	SubmissionCount int            `json:"submission_count"`
	Scores          []ScoreAttempt `json:"scores"`
	LatestScore     float64        `json:"latest_score"`
}

// PlayerScoreHistory lists a player's submissions in a competition, newest
// first. A player with no submissions in the competition is NotFound even if
// the name exists globally.
func (s *ScoreService) PlayerScoreHistory(uniqueID, playerName string) (*ScoreHistoryResult, error) {
	comp, err := s.Store.FindCompetitionByUniqueID(uniqueID)
	if err != nil {
		return nil, internalError(err, "Error fetching player scores")
	}
	if comp == nil {
		return nil, notFoundError("Competition not found")
	}

	player, err := s.Store.FindPlayerByName(playerName)
	if err != nil {
		return nil, internalError(err, "Error fetching player scores")
	}
	if player == nil {
		return nil, notFoundError("Player not found in this competition")
	}

	scores, err := s.Store.PlayerScores(comp.ID, player.ID)
	if err != nil {
		return nil, internalError(err, "Error fetching player scores")
	}
	if len(scores) == 0 {
		return nil, notFoundError("Player not found in this competition")
	}

	attempts := make([]ScoreAttempt, len(scores))
	for i, sc := range scores {
		attempts[i] = ScoreAttempt{Submission: i + 1, Score: sc.Score, Timestamp: sc.Timestamp}
	}
	return &ScoreHistoryResult{
		CompetitionID:   uniqueID,
		PlayerName:      playerName,
		SubmissionCount: len(scores),
		Scores:          attempts,
		LatestScore:     scores[0].Score,
	}, nil
}

// parseScoreValue coerces a decoded JSON value to a numeric score. JSON
// numbers arrive as float64; numeric strings (e.g. "90") are accepted the
// way the API always has.
func parseScoreValue(v interface{}) (float64, error) {
	switch value := v.(type) {
	case float64:
		return value, nil
	case float32:
		return float64(value), nil
	case int:
		return float64(value), nil
	case int64:
		return float64(value), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(value), 64)
	default:
		return 0, strconv.ErrSyntax
	}
}
