package services

import (
	"time"

	"leaderboard-service/models"
	"leaderboard-service/store"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// CompetitionService owns the competition lifecycle: create, list, bulk
// import.
type CompetitionService struct {
	Store *store.Store
}

func NewCompetitionService(st *store.Store) *CompetitionService {
	return &CompetitionService{Store: st}
}

// CreateCompetitionInput is the plain input for Create. ScoreType defaults to
// "points"; StartDate/EndDate are informational.
type CreateCompetitionInput struct {
	Name         string
	UniqueID     string
	ScoreType    string
	SortingOrder string
	StartDate    *time.Time
	EndDate      *time.Time
}

// Create registers a new competition with status "active". The unique_id must
// be a URL-safe slug since it is used as a path segment by every other
// endpoint.
func (s *CompetitionService) Create(in CreateCompetitionInput) (*models.Competition, error) {
	if in.Name == "" || in.UniqueID == "" || in.SortingOrder == "" {
		return nil, validationError("Missing required fields.")
	}
	if in.SortingOrder != models.SortAsc && in.SortingOrder != models.SortDesc {
		return nil, validationError("sorting_order must be ASC or DESC")
	}
	if !slug.IsSlug(in.UniqueID) {
		return nil, validationError("unique_id must be a URL-safe slug (lowercase letters, digits, hyphens)")
	}

	existing, err := s.Store.FindCompetitionByUniqueID(in.UniqueID)
	if err != nil {
		return nil, internalError(err, "Error creating competition")
	}
	if existing != nil {
		return nil, conflictError("Competition already exists")
	}

	scoreType := in.ScoreType
	if scoreType == "" {
		scoreType = "points"
	}
	comp := &models.Competition{
		ID:           uuid.NewString(),
		UniqueID:     in.UniqueID,
		Name:         in.Name,
		ScoreType:    scoreType,
		SortingOrder: in.SortingOrder,
		Status:       models.StatusActive,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
	}
	if err := s.Store.CreateCompetition(comp); err != nil {
		return nil, internalError(err, "Error creating competition")
	}
	return comp, nil
}

// List returns competitions newest first, optionally filtered by exact
// status.
func (s *CompetitionService) List(status string) ([]models.Competition, error) {
	comps, err := s.Store.ListCompetitions(status)
	if err != nil {
		return nil, internalError(err, "Error fetching competitions")
	}
	return comps, nil
}

// BulkScore is one historical score inside a bulk import payload. Score is
// an untyped JSON value so numeric strings pass the same coercion as live
// submissions; Timestamp is optional and defaults to import time.
type BulkScore struct {
	PlayerName string      `json:"player_name"`
	Score      interface{} `json:"score"`
	Timestamp  string      `json:"timestamp"`
}

// BulkCompetition is one competition definition inside a bulk import payload.
type BulkCompetition struct {
	Name         string      `json:"name"`
	UniqueID     string      `json:"unique_id"`
	ScoreType    string      `json:"score_type"`
	SortingOrder string      `json:"sorting_order"`
	Scores       []BulkScore `json:"scores"`
}

// CreatedCompetition reports one competition the bulk import created.
type CreatedCompetition struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	UniqueID string `json:"unique_id"`
}

// AddedScore reports one score the bulk import appended.
type AddedScore struct {
	Competition string    `json:"competition"`
	PlayerName  string    `json:"player_name"`
	Score       float64   `json:"score"`
	Timestamp   time.Time `json:"timestamp"`
}

// BulkImportResult summarizes a bulk import.
type BulkImportResult struct {
	CompetitionsCreated []CreatedCompetition `json:"competitions_created"`
	ScoresAdded         []AddedScore         `json:"scores_added"`
}

// BulkImport creates competitions that do not yet exist (matched by
// unique_id), reuses existing ones, and appends all provided scores. The
// whole batch runs in one transaction: a malformed definition or a failed
// write rolls back everything. Score items missing player_name or score are
// skipped, not errors. Competitions and scores are processed sequentially so
// insertion order, and with it same-timestamp tie-breaking, stays
// deterministic.
func (s *CompetitionService) BulkImport(competitions []BulkCompetition) (*BulkImportResult, error) {
	if competitions == nil {
		return nil, validationError("Payload must include a 'competitions' array.")
	}
	// Validate every definition before any writes begin.
	for _, def := range competitions {
		if def.Name == "" || def.UniqueID == "" || def.SortingOrder == "" {
			return nil, validationError("Missing required fields in one or more competitions.")
		}
		if def.SortingOrder != models.SortAsc && def.SortingOrder != models.SortDesc {
			return nil, validationError("sorting_order must be ASC or DESC")
		}
		if !slug.IsSlug(def.UniqueID) {
			return nil, validationError("unique_id must be a URL-safe slug (lowercase letters, digits, hyphens)")
		}
	}

	result := &BulkImportResult{
		CompetitionsCreated: make([]CreatedCompetition, 0),
		ScoresAdded:         make([]AddedScore, 0),
	}
	err := s.Store.WithTx(func(tx *store.Store) error {
		for _, def := range competitions {
			comp, err := tx.FindCompetitionByUniqueID(def.UniqueID)
			if err != nil {
				return internalError(err, "Error processing bulk payload")
			}
			if comp == nil {
				scoreType := def.ScoreType
				if scoreType == "" {
					scoreType = "points"
				}
				comp = &models.Competition{
					ID:           uuid.NewString(),
					UniqueID:     def.UniqueID,
					Name:         def.Name,
					ScoreType:    scoreType,
					SortingOrder: def.SortingOrder,
					Status:       models.StatusActive,
				}
				if err := tx.CreateCompetition(comp); err != nil {
					return internalError(err, "Error processing bulk payload")
				}
				result.CompetitionsCreated = append(result.CompetitionsCreated, CreatedCompetition{
					ID:       comp.ID,
					Name:     comp.Name,
					UniqueID: comp.UniqueID,
				})
			}

			for _, item := range def.Scores {
				if item.PlayerName == "" || item.Score == nil {
					continue
				}
				value, perr := parseScoreValue(item.Score)
				if perr != nil {
					return validationError("Score must be a number.")
				}
				timestamp := time.Now()
				if item.Timestamp != "" {
					parsed, terr := parseWindowBound(item.Timestamp, false)
					if terr != nil {
						return validationError("invalid timestamp %q", item.Timestamp)
					}
					timestamp = parsed
				}
				player, err := tx.EnsurePlayer(item.PlayerName)
				if err != nil {
					return internalError(err, "Error processing bulk payload")
				}
				score := &models.Score{
					CompetitionID: comp.ID,
					PlayerID:      player.ID,
					Score:         value,
					Timestamp:     timestamp,
				}
				if err := tx.InsertScore(score); err != nil {
					return internalError(err, "Error processing bulk payload")
				}
				result.ScoresAdded = append(result.ScoresAdded, AddedScore{
					Competition: comp.UniqueID,
					PlayerName:  item.PlayerName,
					Score:       value,
					Timestamp:   timestamp,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
