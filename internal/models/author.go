package models

import (
	"time"
)

type Author struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Picture     string    `json:"picture"`                      // Avatar URL from the identity provider
	Reputation  float64   `gorm:"default:0" json:"reputation"`  // Mutated only via services.ApplyReputationDelta
	IsAnonymous bool      `gorm:"default:false" json:"is_anonymous"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
