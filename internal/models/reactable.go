package models

// BaseScore is the score of content nobody has reacted to yet.
const BaseScore = 10.0

// ReactableCounts holds the derived reaction tallies shared by Comment and
// Photo. All four fields are caches: the reaction ledger is the source of
// truth and the score engine overwrites them on every recount. Experience
// is the last persisted score, kept only to compute the next reputation
// delta.
type ReactableCounts struct {
	Upvotes    int     `gorm:"default:0" json:"upvotes"`
	Downvotes  int     `gorm:"default:0" json:"downvotes"`
	Flags      int     `gorm:"default:0" json:"flags"`
	Experience float64 `gorm:"default:0" json:"experience"`
}

// Reactable is content that can receive votes and flags and whose score
// feeds its author's reputation.
type Reactable interface {
	Counts() *ReactableCounts
	OwnerID() uint
}
