package models

import (
	"time"
)

// Competition sorting orders. ASC means lower scores rank better (golf,
// race times), DESC means higher scores rank better (points).
const (
	SortAsc  = "ASC"
	SortDesc = "DESC"
)

// Competition lifecycle statuses.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Competition represents a leaderboard competition. UniqueID is the
// externally-facing identifier used in URLs and is immutable after creation.
type Competition struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	UniqueID     string     `json:"unique_id" gorm:"uniqueIndex;not null"`
	Name         string     `json:"name" gorm:"not null"`
	ScoreType    string     `json:"score_type" gorm:"default:'points'"`
	SortingOrder string     `json:"sorting_order" gorm:"not null"`
	Status       string     `json:"status" gorm:"default:'active'"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}
