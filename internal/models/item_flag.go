package models

import (
	"time"
)

// ItemFlag records that an author reported an item. Item.Flags is a cache
// recounted from these rows; one flag per (item, author).
type ItemFlag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ItemID    uint      `gorm:"not null;index;uniqueIndex:idx_itemflag_item_author" json:"item_id"`
	Item      Item      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"item"`
	AuthorID  uint      `gorm:"not null;index;uniqueIndex:idx_itemflag_item_author" json:"author_id"`
	Author    Author    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	CreatedAt time.Time `json:"created_at"`
}
