package models

import (
	"time"
)

// Rating is one author's star rating of one item. At most one row per
// (item, author); a second submission updates the existing row in place.
type Rating struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ItemID      uint      `gorm:"not null;index;uniqueIndex:idx_rating_item_author" json:"item_id"`
	Item        Item      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"item"`
	AuthorID    uint      `gorm:"not null;index;uniqueIndex:idx_rating_item_author" json:"author_id"`
	Author      Author    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Value       float64   `gorm:"not null" json:"value"`
	IsAnonymous bool      `gorm:"default:false" json:"is_anonymous"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
