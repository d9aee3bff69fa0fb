package services

import (
	"hermes/internal/config"
	"hermes/internal/models"

	"gorm.io/gorm"
)

// Reputation change reasons recorded in the audit log.
const (
	ReasonCommentScored = "comment score change"
	ReasonPhotoScored   = "photo score change"
)

// ApplyReputationDelta adjusts an author's reputation inside the caller's
// transaction and records the change. The caller owns the transaction
// boundary; this never opens one of its own.
func ApplyReputationDelta(tx *gorm.DB, authorID uint, delta float64, reason string) error {
	entry := models.ReputationLog{
		AuthorID: authorID,
		Delta:    delta,
		Reason:   reason,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}

	return tx.Model(&models.Author{}).
		Where("id = ?", authorID).
		UpdateColumn("reputation", gorm.Expr("reputation + ?", delta)).
		Error
}

// Level is a discrete trust bracket derived from reputation.
type Level struct {
	Tier  int    `json:"type"`
	Label string `json:"title"`
}

// Classify maps a reputation scalar onto a trust level using the injected
// thresholds. Intermediate and Trusted share a tier on purpose; the
// mapping is monotone in reputation either way.
func Classify(reputation float64, t config.TierThresholds) Level {
	switch {
	case reputation < t.Banned:
		return Level{0, "Banned"}
	case reputation < t.Beginner:
		return Level{1, "Warning"}
	case reputation < t.Intermediate:
		return Level{2, "Beginner"}
	case reputation < t.Trusted:
		return Level{3, "Intermediate"}
	case reputation < t.Expert:
		return Level{3, "Trusted"}
	default:
		return Level{4, "Expert"}
	}
}
