package store

import (
	"time"

	"leaderboard-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the data-access layer. Every method is a single request-scoped
// statement; multi-statement sequences go through WithTx.
type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// WithTx runs fn against a Store bound to one transaction. fn returning an
// error rolls everything back.
func (s *Store) WithTx(fn func(tx *Store) error) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{DB: tx})
	})
}

// ScoreRow is one score submission joined with its player name. Seq is the
// insertion sequence (scores.id), used as the deterministic secondary sort
// key when timestamps collide.
type ScoreRow struct {
	Seq        uint      `json:"-"`
	PlayerName string    `json:"player_name"`
	Score      float64   `json:"score"`
	Timestamp  time.Time `json:"timestamp"`
}

// HistoryRow is a player's final result in one competition, joined with the
// competition's display fields.
type HistoryRow struct {
	CompetitionName string    `json:"competition_name"`
	UniqueID        string    `json:"unique_id"`
	FinalRank       int       `json:"final_rank"`
	FinalScore      float64   `json:"final_score"`
	CompletedDate   time.Time `json:"completed_date"`
}

// --- Competitions ---

// FindCompetitionByUniqueID returns (nil, nil) when no competition matches.
func (s *Store) FindCompetitionByUniqueID(uniqueID string) (*models.Competition, error) {
	var comp models.Competition
	err := s.DB.Where("unique_id = ?", uniqueID).First(&comp).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comp, nil
}

// ListCompetitions returns all competitions newest-created first. An empty
// status (or "all") disables the filter.
func (s *Store) ListCompetitions(status string) ([]models.Competition, error) {
	q := s.DB.Order("created_at DESC")
	if status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}
	var comps []models.Competition
	if err := q.Find(&comps).Error; err != nil {
		return nil, err
	}
	return comps, nil
}

func (s *Store) CreateCompetition(comp *models.Competition) error {
	return s.DB.Create(comp).Error
}

// CompetitionsDueForFinalize returns active competitions whose end_date has
// passed.
func (s *Store) CompetitionsDueForFinalize(now time.Time) ([]models.Competition, error) {
	var comps []models.Competition
	err := s.DB.
		Where("status = ? AND end_date IS NOT NULL AND end_date <= ?", models.StatusActive, now).
		Find(&comps).Error
	if err != nil {
		return nil, err
	}
	return comps, nil
}

func (s *Store) UpdateCompetitionStatus(competitionID, status string) error {
	return s.DB.Model(&models.Competition{}).
		Where("id = ?", competitionID).
		Update("status", status).Error
}

// --- Players ---

// FindPlayerByName returns (nil, nil) when no player matches. Matching is
// case-sensitive and exact.
func (s *Store) FindPlayerByName(name string) (*models.Player, error) {
	var player models.Player
	err := s.DB.Where("name = ?", name).First(&player).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &player, nil
}

// EnsurePlayer returns the player with the given name, creating it if absent.
// The insert is ON CONFLICT DO NOTHING on the unique name index, so two
// concurrent submissions of a new name cannot create duplicates.
func (s *Store) EnsurePlayer(name string) (*models.Player, error) {
	candidate := models.Player{ID: uuid.NewString(), Name: name}
	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&candidate).Error
	if err != nil {
		return nil, err
	}
	// Re-read: the insert may have been skipped in favour of an existing row.
	var player models.Player
	if err := s.DB.Where("name = ?", name).First(&player).Error; err != nil {
		return nil, err
	}
	return &player, nil
}

// --- Scores ---

func (s *Store) InsertScore(score *models.Score) error {
	return s.DB.Create(score).Error
}

// ScoreRows returns all submissions for a competition joined with player
// names, ordered by insertion sequence. start/end bound the timestamp
// inclusively when non-nil.
func (s *Store) ScoreRows(competitionID string, start, end *time.Time) ([]ScoreRow, error) {
	q := s.DB.Table("scores").
		Select("scores.id AS seq, players.name AS player_name, scores.score, scores.timestamp").
		Joins("JOIN players ON players.id = scores.player_id").
		Where("scores.competition_id = ?", competitionID)
	if start != nil {
		q = q.Where("scores.timestamp >= ?", *start)
	}
	if end != nil {
		q = q.Where("scores.timestamp <= ?", *end)
	}
	var rows []ScoreRow
	if err := q.Order("scores.id ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// PlayerScores returns a player's submissions in one competition, newest
// first.
func (s *Store) PlayerScores(competitionID, playerID string) ([]models.Score, error) {
	var scores []models.Score
	err := s.DB.Where("competition_id = ? AND player_id = ?", competitionID, playerID).
		Order("timestamp DESC").
		Order("id DESC").
		Find(&scores).Error
	if err != nil {
		return nil, err
	}
	return scores, nil
}

// CountDistinctBetterScores counts distinct score values strictly better than
// the given score across all submissions in the competition. "Better" follows
// the competition's sorting order.
func (s *Store) CountDistinctBetterScores(competitionID string, score float64, sortingOrder string) (int64, error) {
	op := "<"
	if sortingOrder == models.SortDesc {
		op = ">"
	}
	var count int64
	err := s.DB.Model(&models.Score{}).
		Distinct("score").
		Where("competition_id = ? AND score "+op+" ?", competitionID, score).
		Count(&count).Error
	return count, err
}

func (s *Store) DeleteScores(competitionID string) (int64, error) {
	res := s.DB.Where("competition_id = ?", competitionID).Delete(&models.Score{})
	return res.RowsAffected, res.Error
}

// --- Snapshots ---

func (s *Store) InsertSnapshot(snapshot *models.Snapshot) error {
	return s.DB.Create(snapshot).Error
}

func (s *Store) SnapshotsByCompetition(competitionID string) ([]models.Snapshot, error) {
	var snapshots []models.Snapshot
	err := s.DB.Where("competition_id = ?", competitionID).
		Order("snapshot_date DESC").
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (s *Store) DeleteSnapshots(competitionID string) (int64, error) {
	res := s.DB.Where("competition_id = ?", competitionID).Delete(&models.Snapshot{})
	return res.RowsAffected, res.Error
}

// --- Player history ---

func (s *Store) HasHistory(playerID, competitionID string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.PlayerHistory{}).
		Where("player_id = ? AND competition_id = ?", playerID, competitionID).
		Count(&count).Error
	return count > 0, err
}

func (s *Store) InsertHistory(entry *models.PlayerHistory) error {
	return s.DB.Create(entry).Error
}

// HistoryForPlayer returns a player's career results across all finalized
// competitions, most recently completed first.
func (s *Store) HistoryForPlayer(playerID string) ([]HistoryRow, error) {
	var rows []HistoryRow
	err := s.DB.Table("player_histories").
		Select("competitions.name AS competition_name, competitions.unique_id, player_histories.final_rank, player_histories.final_score, player_histories.completed_date").
		Joins("JOIN competitions ON competitions.id = player_histories.competition_id").
		Where("player_histories.player_id = ?", playerID).
		Order("player_histories.completed_date DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) DeleteHistory(competitionID string) (int64, error) {
	res := s.DB.Where("competition_id = ?", competitionID).Delete(&models.PlayerHistory{})
	return res.RowsAffected, res.Error
}
