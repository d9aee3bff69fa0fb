package models

import (
	"time"
)

// ReputationLog is the audit trail of author reputation changes. Every
// delta applied by the score engine creates one row.
type ReputationLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    Author    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Delta     float64   `gorm:"not null" json:"delta"`           // positive or negative
	Reason    string    `gorm:"size:100;not null" json:"reason"` // what triggered the change
	CreatedAt time.Time `json:"created_at"`
}
