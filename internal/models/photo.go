package models

import (
	"time"
)

// Photo of an item. Unlike Comment and Rating there is no uniqueness
// constraint on (item, author): one author may upload several photos of
// the same item.
type Photo struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ItemID      uint   `gorm:"not null;index" json:"item_id"`
	Item        Item   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"item"`
	AuthorID    uint   `gorm:"not null;index" json:"author_id"`
	Author      Author `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Picture     string `gorm:"not null" json:"picture"` // URL on the media host
	IsAnonymous bool   `gorm:"default:false" json:"is_anonymous"`

	ReactableCounts `gorm:"embedded"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Photo) Counts() *ReactableCounts { return &p.ReactableCounts }

func (p *Photo) OwnerID() uint { return p.AuthorID }
