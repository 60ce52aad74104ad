package models

import (
	"time"
)

// Score is one submission in the append-only score log. Rows are never
// updated or deleted except by a competition reset.
//
// ID is an auto-increment integer rather than a uuid: it doubles as the
// insertion sequence, which is the deterministic tie-break when two
// submissions carry byte-identical timestamps.
type Score struct {
	ID            uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	CompetitionID string    `json:"competition_id" gorm:"not null;index"`
	PlayerID      string    `json:"player_id" gorm:"not null;index"`
	Score         float64   `json:"score" gorm:"not null"`
	Timestamp     time.Time `json:"timestamp" gorm:"index"`
}
