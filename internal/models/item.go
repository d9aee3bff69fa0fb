package models

import (
	"time"
)

type ItemStatus int

const (
	ItemVerified ItemStatus = iota
	ItemUnverified
	ItemDeleted // set by external moderation only, never by recalculation
	ItemRemoved
)

type WashroomType int

const (
	WashroomMale WashroomType = iota
	WashroomFemale
	WashroomBoth
	WashroomNone
)

// Item is the location-tagged crowd-sourced entity. Rating, Flags and
// Status are derived caches owned by the rating aggregator.
type Item struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Title       string       `gorm:"size:256;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	AuthorID    uint         `gorm:"not null;index" json:"author_id"`
	Author      Author       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Rating      float64      `gorm:"default:0" json:"rating"`
	Latitude    float64      `gorm:"not null;index" json:"latitude"`
	Longitude   float64      `gorm:"not null;index" json:"longitude"`
	Flags       int          `gorm:"default:0" json:"flags"`
	Status      ItemStatus   `json:"status"` // no column default: Verified is 0 and must survive explicit writes
	IsAnonymous bool         `gorm:"default:false" json:"is_anonymous"`
	IsFree      bool         `json:"is_free"`
	Gender      WashroomType `json:"gender"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Filled by read helpers, not stored
	CommentCount int `gorm:"-" json:"comment_count"`
	PhotoCount   int `gorm:"-" json:"photo_count"`
}
