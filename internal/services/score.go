package services

import (
	"fmt"

	"hermes/internal/models"
)

// TierTable maps a non-negative count onto one of a handful of score
// levels. Thresholds and Scores are parallel, ascending sequences.
type TierTable struct {
	Thresholds []int
	Scores     []float64
}

// DefaultTierScores is the standard doubling ladder.
var DefaultTierScores = []float64{1, 2, 4, 8, 16}

// NewTierTable validates the table shape. Malformed tables are a
// configuration error, so callers building tables at startup should treat
// a non-nil error as fatal.
func NewTierTable(thresholds []int, scores []float64) (TierTable, error) {
	if len(thresholds) == 0 || len(thresholds) != len(scores) {
		return TierTable{}, fmt.Errorf("tier table: %d thresholds vs %d scores", len(thresholds), len(scores))
	}
	for i := 1; i < len(thresholds); i++ {
		if thresholds[i] <= thresholds[i-1] {
			return TierTable{}, fmt.Errorf("tier table: thresholds not ascending: %v", thresholds)
		}
		if scores[i] <= scores[i-1] {
			return TierTable{}, fmt.Errorf("tier table: scores not ascending: %v", scores)
		}
	}
	return TierTable{Thresholds: thresholds, Scores: scores}, nil
}

func mustTierTable(thresholds []int, scores []float64) TierTable {
	tbl, err := NewTierTable(thresholds, scores)
	if err != nil {
		panic(err)
	}
	return tbl
}

// The three reaction ladders. Note the upvote table starts at 1: a single
// upvote earns no bonus.
var (
	flagTiers     = mustTierTable([]int{0, 4, 8, 16, 32}, DefaultTierScores)
	downvoteTiers = mustTierTable([]int{0, 5, 10, 20, 50}, DefaultTierScores)
	upvoteTiers   = mustTierTable([]int{1, 10, 50, 200, 1000}, DefaultTierScores)
)

// Weight of each reaction ladder in the score formula.
const (
	flagScale     = 5.0
	downvoteScale = 2.0
	upvoteScale   = 1.0
)

// ConvertToScore maps count through the table: counts at or below the
// first threshold score 0, then each threshold crossed strictly moves the
// count into the next level, capped at the last one. Monotone,
// non-decreasing, pure.
func ConvertToScore(count int, scale float64, tbl TierTable) float64 {
	if count <= tbl.Thresholds[0] {
		return 0
	}
	for i, t := range tbl.Thresholds {
		if t > count {
			return scale * tbl.Scores[i-1]
		}
	}
	return scale * tbl.Scores[len(tbl.Scores)-1]
}

// Score derives the quality score of a piece of content from its reaction
// tallies. Flags hurt most, downvotes less, upvotes help.
func Score(c models.ReactableCounts) float64 {
	return models.BaseScore -
		ConvertToScore(c.Flags, flagScale, flagTiers) -
		ConvertToScore(c.Downvotes, downvoteScale, downvoteTiers) +
		ConvertToScore(c.Upvotes, upvoteScale, upvoteTiers)
}
