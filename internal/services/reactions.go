package services

import (
	"errors"
	"fmt"

	"hermes/internal/db"
	"hermes/internal/models"

	"gorm.io/gorm"
)

// Reaction target kinds accepted by the ledger operations.
const (
	TargetComment = "comment"
	TargetPhoto   = "photo"
)

var ErrUnknownTarget = errors.New("unknown reaction target type")

// Each operation below runs as one transaction: mutate the ledger row,
// recount the cached tallies from the ledger, recompute the score and push
// the delta into the author's reputation. The target row is locked for the
// duration so concurrent reactions against the same content cannot
// interleave the recount with the write-back.

// Upvote sets the caller's vote-track reaction to upvote, creating the row
// if needed. The flag track is untouched.
func Upvote(targetType string, targetID, authorID uint) (models.Reactable, error) {
	return setVote(targetType, targetID, authorID, models.ReactionUpvote)
}

// Downvote sets the caller's vote-track reaction to downvote.
func Downvote(targetType string, targetID, authorID uint) (models.Reactable, error) {
	return setVote(targetType, targetID, authorID, models.ReactionDownvote)
}

// Unvote removes the caller's vote-track reaction. Removing a vote that
// does not exist is a no-op, not an error.
func Unvote(targetType string, targetID, authorID uint) (models.Reactable, error) {
	return mutateReactable(targetType, targetID, func(tx *gorm.DB, target models.Reactable) error {
		return voteTrack(tx, target, authorID).Delete(&models.Reaction{}).Error
	})
}

// Flag adds the caller's flag-track reaction. Flagging twice has no
// additional effect.
func Flag(targetType string, targetID, authorID uint) (models.Reactable, error) {
	return mutateReactable(targetType, targetID, func(tx *gorm.DB, target models.Reactable) error {
		var existing models.Reaction
		err := flagTrack(tx, target, authorID).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		reaction := newReaction(target, authorID, models.ReactionFlag)
		return tx.Create(&reaction).Error
	})
}

// Unflag removes the caller's flag-track reaction, leaving any vote
// intact. Idempotent.
func Unflag(targetType string, targetID, authorID uint) (models.Reactable, error) {
	return mutateReactable(targetType, targetID, func(tx *gorm.DB, target models.Reactable) error {
		return flagTrack(tx, target, authorID).Delete(&models.Reaction{}).Error
	})
}

// RecomputeScore refreshes the cached tallies and the score of a reactable
// without touching the ledger. With no intervening ledger change the
// reputation delta is zero, so calling this repeatedly is safe.
func RecomputeScore(targetType string, targetID uint) (models.Reactable, error) {
	return mutateReactable(targetType, targetID, func(tx *gorm.DB, target models.Reactable) error {
		return nil
	})
}

func setVote(targetType string, targetID, authorID uint, kind models.ReactionKind) (models.Reactable, error) {
	return mutateReactable(targetType, targetID, func(tx *gorm.DB, target models.Reactable) error {
		var existing models.Reaction
		err := voteTrack(tx, target, authorID).First(&existing).Error
		if err == nil {
			if existing.Kind == kind {
				return nil
			}
			existing.Kind = kind
			return tx.Save(&existing).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		reaction := newReaction(target, authorID, kind)
		return tx.Create(&reaction).Error
	})
}

// mutateReactable loads and locks the target, applies the ledger mutation,
// then runs the refresh-recount-rescore pass and persists everything.
func mutateReactable(targetType string, targetID uint, mutate func(*gorm.DB, models.Reactable) error) (models.Reactable, error) {
	var target models.Reactable
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		target, err = lockReactable(tx, targetType, targetID)
		if err != nil {
			return err
		}
		if err := mutate(tx, target); err != nil {
			return err
		}
		return refreshAndScore(tx, target)
	})
	if err != nil {
		return nil, err
	}
	return target, nil
}

// refreshAndScore recounts the tallies from the ledger, recomputes the
// score, and applies the score delta to the owning author. Order matters:
// the recount must land before the score is computed, and both the target
// and the author must be persisted in the same transaction or the next
// delta double-counts.
func refreshAndScore(tx *gorm.DB, target models.Reactable) error {
	counts := target.Counts()

	tally := func(kind models.ReactionKind) (int, error) {
		var n int64
		err := reactionScope(tx, target).Where("kind = ?", kind).Count(&n).Error
		return int(n), err
	}

	var err error
	if counts.Upvotes, err = tally(models.ReactionUpvote); err != nil {
		return err
	}
	if counts.Downvotes, err = tally(models.ReactionDownvote); err != nil {
		return err
	}
	if counts.Flags, err = tally(models.ReactionFlag); err != nil {
		return err
	}

	score := Score(*counts)
	delta := score - counts.Experience
	counts.Experience = score

	if err := tx.Save(target).Error; err != nil {
		return err
	}

	if delta != 0 {
		return ApplyReputationDelta(tx, target.OwnerID(), delta, scoreReason(target))
	}
	return nil
}

func lockReactable(tx *gorm.DB, targetType string, targetID uint) (models.Reactable, error) {
	locked := rowLock(tx)
	switch targetType {
	case TargetComment:
		var comment models.Comment
		if err := locked.First(&comment, targetID).Error; err != nil {
			return nil, err
		}
		return &comment, nil
	case TargetPhoto:
		var photo models.Photo
		if err := locked.First(&photo, targetID).Error; err != nil {
			return nil, err
		}
		return &photo, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, targetType)
	}
}

// reactionScope narrows a Reaction query to one target.
func reactionScope(tx *gorm.DB, target models.Reactable) *gorm.DB {
	switch t := target.(type) {
	case *models.Comment:
		return tx.Model(&models.Reaction{}).Where("comment_id = ?", t.ID)
	case *models.Photo:
		return tx.Model(&models.Reaction{}).Where("photo_id = ?", t.ID)
	default:
		panic(fmt.Sprintf("reactionScope: unexpected target %T", target))
	}
}

// voteTrack selects the caller's single up/down vote row, if any.
func voteTrack(tx *gorm.DB, target models.Reactable, authorID uint) *gorm.DB {
	return reactionScope(tx, target).
		Where("author_id = ?", authorID).
		Where("kind <> ?", models.ReactionFlag)
}

// flagTrack selects the caller's single flag row, if any.
func flagTrack(tx *gorm.DB, target models.Reactable, authorID uint) *gorm.DB {
	return reactionScope(tx, target).
		Where("author_id = ?", authorID).
		Where("kind = ?", models.ReactionFlag)
}

func newReaction(target models.Reactable, authorID uint, kind models.ReactionKind) models.Reaction {
	reaction := models.Reaction{AuthorID: authorID, Kind: kind}
	switch t := target.(type) {
	case *models.Comment:
		reaction.CommentID = &t.ID
	case *models.Photo:
		reaction.PhotoID = &t.ID
	}
	return reaction
}

func scoreReason(target models.Reactable) string {
	if _, ok := target.(*models.Photo); ok {
		return ReasonPhotoScored
	}
	return ReasonCommentScored
}
