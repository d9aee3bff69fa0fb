package models

import (
	"time"
)

// Comment on an item. At most one per (item, author); re-submitting
// replaces the body.
type Comment struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ItemID      uint   `gorm:"not null;index;uniqueIndex:idx_comment_item_author" json:"item_id"`
	Item        Item   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"item"`
	AuthorID    uint   `gorm:"not null;index;uniqueIndex:idx_comment_item_author" json:"author_id"`
	Author      Author `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Description string `gorm:"type:text;not null" json:"description"` // markdown source
	HTML        string `gorm:"type:text" json:"html"`                 // rendered and sanitized
	IsAnonymous bool   `gorm:"default:false" json:"is_anonymous"`

	ReactableCounts `gorm:"embedded"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Comment) Counts() *ReactableCounts { return &c.ReactableCounts }

func (c *Comment) OwnerID() uint { return c.AuthorID }
