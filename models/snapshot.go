package models

import (
	"time"
)

// Snapshot is an immutable point-in-time copy of a competition's leaderboard,
// created by finalize. FinalLeaderboard holds the ranked entries as a JSON
// document: exactly what the leaderboard looked like at snapshot time, independent
// of later score activity.
type Snapshot struct {
	ID                string    `json:"id" gorm:"primaryKey"`
	CompetitionID     string    `json:"competition_id" gorm:"not null;index"`
	SnapshotDate      time.Time `json:"snapshot_date" gorm:"autoCreateTime"`
	FinalLeaderboard  string    `json:"final_leaderboard" gorm:"type:text"`
	TotalParticipants int       `json:"total_participants"`
}
