package models

import (
	"time"
)

// Player is a global identity shared across competitions, created lazily on
// first score submission. Names are matched case-sensitively.
type Player struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
