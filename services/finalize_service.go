package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"leaderboard-service/models"
	"leaderboard-service/store"
	"leaderboard-service/utils"

	"github.com/google/uuid"
)

// FinalizeService snapshots leaderboards into permanent records and owns the
// reverse operation, reset.
type FinalizeService struct {
	Store *store.Store
}

func NewFinalizeService(st *store.Store) *FinalizeService {
	return &FinalizeService{Store: st}
}

// FinalizeResult is the outcome of one finalize call.
type FinalizeResult struct {
	Competition  *models.Competition
	Leaderboard  []LeaderboardEntry
	Participants int
}

// Finalize computes the all-time leaderboard (latest submission per player),
// stores it as a new immutable snapshot, flips the competition to
// "completed", and merges the results into per-player career history. The
// whole sequence runs in one transaction, so a crash cannot leave a snapshot
// without the status flip or half the history rows.
//
// Finalize may be called repeatedly: every call adds a snapshot, but history
// rows are only written for (player, competition) pairs that have none yet.
func (s *FinalizeService) Finalize(uniqueID string) (*FinalizeResult, error) {
	comp, err := s.Store.FindCompetitionByUniqueID(uniqueID)
	if err != nil {
		return nil, internalError(err, "Error finalizing competition")
	}
	if comp == nil {
		return nil, notFoundError("Competition not found")
	}

	var leaderboard []LeaderboardEntry
	var snapshot *models.Snapshot
	err = s.Store.WithTx(func(tx *store.Store) error {
		rows, err := tx.ScoreRows(comp.ID, nil, nil)
		if err != nil {
			return internalError(err, "Error finalizing competition")
		}
		leaderboard = BuildLeaderboard(rows, comp.SortingOrder)

		payload, err := json.Marshal(leaderboard)
		if err != nil {
			return internalError(err, "Error finalizing competition")
		}
		snapshot = &models.Snapshot{
			ID:                uuid.NewString(),
			CompetitionID:     comp.ID,
			SnapshotDate:      time.Now(),
			FinalLeaderboard:  string(payload),
			TotalParticipants: len(leaderboard),
		}
		if err := tx.InsertSnapshot(snapshot); err != nil {
			return internalError(err, "Error finalizing competition")
		}
		if err := tx.UpdateCompetitionStatus(comp.ID, models.StatusCompleted); err != nil {
			return internalError(err, "Error finalizing competition")
		}

		for _, entry := range leaderboard {
			player, err := tx.FindPlayerByName(entry.PlayerName)
			if err != nil {
				return internalError(err, "Error finalizing competition")
			}
			if player == nil {
				continue
			}
			exists, err := tx.HasHistory(player.ID, comp.ID)
			if err != nil {
				return internalError(err, "Error finalizing competition")
			}
			if exists {
				continue
			}
			entry := &models.PlayerHistory{
				ID:            uuid.NewString(),
				PlayerID:      player.ID,
				CompetitionID: comp.ID,
				FinalRank:     entry.Rank,
				FinalScore:    entry.Score,
				CompletedDate: time.Now(),
			}
			if err := tx.InsertHistory(entry); err != nil {
				return internalError(err, "Error finalizing competition")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	comp.Status = models.StatusCompleted

	// Best-effort archival after commit; a storage hiccup never fails the
	// finalize that already happened.
	if utils.ArchiveEnabled() {
		key := fmt.Sprintf("snapshots/%s/%s.json", comp.UniqueID, snapshot.ID)
		if _, err := utils.UploadSnapshotArchive(key, []byte(snapshot.FinalLeaderboard)); err != nil {
			log.Printf("WARN: snapshot archive upload failed for %s: %v", comp.UniqueID, err)
		}
	}

	return &FinalizeResult{
		Competition:  comp,
		Leaderboard:  leaderboard,
		Participants: len(leaderboard),
	}, nil
}

// ResetResult reports how many rows each table lost.
type ResetResult struct {
	Scores        int64 `json:"scores"`
	Snapshots     int64 `json:"snapshots"`
	PlayerHistory int64 `json:"player_history"`
}

// Reset wipes a competition back to a blank active state: all submissions,
// snapshots, and history rows go, in one transaction. Players persist; they
// are global identities, not competition data.
func (s *FinalizeService) Reset(uniqueID string) (*ResetResult, error) {
	comp, err := s.Store.FindCompetitionByUniqueID(uniqueID)
	if err != nil {
		return nil, internalError(err, "Error resetting competition")
	}
	if comp == nil {
		return nil, notFoundError("Competition not found.")
	}

	var result ResetResult
	err = s.Store.WithTx(func(tx *store.Store) error {
		if result.Scores, err = tx.DeleteScores(comp.ID); err != nil {
			return internalError(err, "Error resetting competition")
		}
		if result.Snapshots, err = tx.DeleteSnapshots(comp.ID); err != nil {
			return internalError(err, "Error resetting competition")
		}
		if result.PlayerHistory, err = tx.DeleteHistory(comp.ID); err != nil {
			return internalError(err, "Error resetting competition")
		}
		if err := tx.UpdateCompetitionStatus(comp.ID, models.StatusActive); err != nil {
			return internalError(err, "Error resetting competition")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SnapshotView is one stored snapshot with its leaderboard deserialized.
type SnapshotView struct {
	SnapshotID   string             `json:"snapshot_id"`
	Date         time.Time          `json:"date"`
	Participants int                `json:"participants"`
	Results      []LeaderboardEntry `json:"results"`
}

// SnapshotsResult lists a competition's snapshots, newest first.
type SnapshotsResult struct {
	Competition *models.Competition
	Snapshots   []SnapshotView
}

// GetSnapshots returns every snapshot taken for a competition.
func (s *FinalizeService) GetSnapshots(uniqueID string) (*SnapshotsResult, error) {
	comp, err := s.Store.FindCompetitionByUniqueID(uniqueID)
	if err != nil {
		return nil, internalError(err, "Error fetching snapshots")
	}
	if comp == nil {
		return nil, notFoundError("Competition not found")
	}

	snapshots, err := s.Store.SnapshotsByCompetition(comp.ID)
	if err != nil {
		return nil, internalError(err, "Error fetching snapshots")
	}
	views := make([]SnapshotView, len(snapshots))
	for i, snap := range snapshots {
		var results []LeaderboardEntry
		if err := json.Unmarshal([]byte(snap.FinalLeaderboard), &results); err != nil {
			return nil, internalError(err, "Error fetching snapshots")
		}
		views[i] = SnapshotView{
			SnapshotID:   snap.ID,
			Date:         snap.SnapshotDate,
			Participants: snap.TotalParticipants,
			Results:      results,
		}
	}
	return &SnapshotsResult{Competition: comp, Snapshots: views}, nil
}

// CareerHistoryResult is a player's final results across every competition
// they finished.
type CareerHistoryResult struct {
	PlayerName               string             `json:"player_name"`
	CompetitionsParticipated int                `json:"competitions_participated"`
	History                  []store.HistoryRow `json:"history"`
}

// PlayerCareerHistory returns a player's career record, most recent
// completion first.
func (s *FinalizeService) PlayerCareerHistory(playerName string) (*CareerHistoryResult, error) {
	player, err := s.Store.FindPlayerByName(playerName)
	if err != nil {
		return nil, internalError(err, "Error fetching player history")
	}
	if player == nil {
		return nil, notFoundError("Player not found")
	}

	rows, err := s.Store.HistoryForPlayer(player.ID)
	if err != nil {
		return nil, internalError(err, "Error fetching player history")
	}
	return &CareerHistoryResult{
		PlayerName:               playerName,
		CompetitionsParticipated: len(rows),
		History:                  rows,
	}, nil
}
