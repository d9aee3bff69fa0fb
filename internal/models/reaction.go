package models

import (
	"time"
)

type ReactionKind int

const (
	ReactionNone ReactionKind = iota
	ReactionUpvote
	ReactionDownvote
	ReactionFlag
)

// Reaction is one ledger row: a single author's reaction against a single
// comment or photo. Exactly one of CommentID/PhotoID is set.
//
// Per (target, author) pair the services layer keeps at most two live rows:
// one vote-track row (Kind upvote or downvote) and one flag-track row
// (Kind flag). A partial unique index would also work, but expressing
// "unique where kind <> flag" portably across PG and the sqlite test
// dialect is not worth it; all writes go through the ledger ops anyway.
type Reaction struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	AuthorID  uint         `gorm:"not null;index" json:"author_id"`
	Author    Author       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	CommentID *uint        `gorm:"index" json:"comment_id"`
	PhotoID   *uint        `gorm:"index" json:"photo_id"`
	Kind      ReactionKind `gorm:"not null" json:"kind"`
	CreatedAt time.Time    `json:"created_at"`
}
