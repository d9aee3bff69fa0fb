package services

import (
	"errors"
	"math"

	"hermes/internal/config"
	"hermes/internal/db"
	"hermes/internal/models"

	"gorm.io/gorm"
)

var ErrRatingOutOfRange = errors.New("rating outside the accepted range")

// RatingWeight weighs one rating in the item mean. Constant for now;
// replace to weigh raters by reputation, e.g.
// max(0, rating.Author.Reputation).
var RatingWeight = func(models.Rating) float64 { return 1.0 }

// SubmitRating upserts the caller's rating of an item and recalculates the
// item's aggregate rating and status. Values are rounded to whole stars
// and rejected before any write when out of range.
func SubmitRating(itemID, authorID uint, value float64, anonymous bool) (*models.Item, error) {
	stars := math.Round(value)
	if stars < config.Current.MinRating || stars > config.Current.MaxRating {
		return nil, ErrRatingOutOfRange
	}

	var item *models.Item
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = lockItem(tx, itemID)
		if err != nil {
			return err
		}

		var rating models.Rating
		err = tx.Where("item_id = ? AND author_id = ?", itemID, authorID).First(&rating).Error
		switch {
		case err == nil:
			rating.Value = stars
			rating.IsAnonymous = anonymous
			if err := tx.Save(&rating).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			rating = models.Rating{
				ItemID:      itemID,
				AuthorID:    authorID,
				Value:       stars,
				IsAnonymous: anonymous,
			}
			if err := tx.Create(&rating).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return recalculateItem(tx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RecalculateItem re-derives an item's aggregate rating, flag count and
// status from the underlying tables. Idempotent; run it after anything
// that changes the item's rating, comment, photo or flag counts.
func RecalculateItem(itemID uint) (*models.Item, error) {
	var item *models.Item
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = lockItem(tx, itemID)
		if err != nil {
			return err
		}
		return recalculateItem(tx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func recalculateItem(tx *gorm.DB, item *models.Item) error {
	// A moderated-away item stays deleted no matter what the counts say.
	if item.Status == models.ItemDeleted {
		return nil
	}

	var ratings []models.Rating
	if err := tx.Where("item_id = ?", item.ID).Find(&ratings).Error; err != nil {
		return err
	}

	sum, weight := 0.0, 0.0
	for _, r := range ratings {
		w := RatingWeight(r)
		sum += r.Value * w
		weight += w
	}
	if weight == 0.0 {
		item.Rating = 0.0
	} else {
		item.Rating = sum / weight
	}

	count := func(model any) (int, error) {
		var n int64
		err := tx.Model(model).Where("item_id = ?", item.ID).Count(&n).Error
		return int(n), err
	}
	flags, err := count(&models.ItemFlag{})
	if err != nil {
		return err
	}
	comments, err := count(&models.Comment{})
	if err != nil {
		return err
	}
	photos, err := count(&models.Photo{})
	if err != nil {
		return err
	}

	item.Flags = flags
	item.Status = deriveStatus(len(ratings), comments, photos, flags)

	return tx.Save(item).Error
}

// deriveStatus picks the item status from community activity. Order
// matters: enough activity with few flags verifies, then heavy flagging
// removes, everything else stays unverified. Deleted is never produced
// here.
func deriveStatus(ratingCount, commentCount, photoCount, flags int) models.ItemStatus {
	switch {
	case (ratingCount > 5 || commentCount+photoCount > 3) && flags < 5:
		return models.ItemVerified
	case flags > 15:
		return models.ItemRemoved
	default:
		return models.ItemUnverified
	}
}

func lockItem(tx *gorm.DB, itemID uint) (*models.Item, error) {
	var item models.Item
	if err := rowLock(tx).First(&item, itemID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}
