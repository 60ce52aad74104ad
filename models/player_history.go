package models

import (
	"time"
)

// PlayerHistory is one career record per (player, competition) pair, written
// by finalize. The unique index enforces finalize's idempotency: repeated
// finalize calls add snapshots but never duplicate history rows.
type PlayerHistory struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	PlayerID      string    `json:"player_id" gorm:"not null;uniqueIndex:idx_player_competition"`
	CompetitionID string    `json:"competition_id" gorm:"not null;uniqueIndex:idx_player_competition"`
	FinalRank     int       `json:"final_rank"`
	FinalScore    float64   `json:"final_score"`
	CompletedDate time.Time `json:"completed_date"`
}
