package services

import (
	"errors"

	"hermes/internal/config"
	"hermes/internal/db"
	"hermes/internal/models"
	"hermes/internal/utils"

	"gorm.io/gorm"
)

var (
	ErrInvalidLocation = errors.New("location outside valid coordinate range")
	ErrEmptyTitle      = errors.New("item title must not be empty")
)

// ItemInput carries the caller-validated fields for item creation.
type ItemInput struct {
	Title       string
	Description string
	Latitude    float64
	Longitude   float64
	IsAnonymous bool
	IsFree      bool
	Gender      models.WashroomType
}

// ValidLocation reports whether the coordinates are on the globe.
func ValidLocation(latitude, longitude float64) bool {
	return -90.0 <= latitude && latitude <= 90.0 &&
		-180.0 <= longitude && longitude <= 180.0
}

// CreateItem creates an item for the author, or returns the author's
// existing item at the same coordinates. Authors with enough reputation
// get their items verified on creation.
func CreateItem(authorID uint, in ItemInput) (*models.Item, error) {
	if !ValidLocation(in.Latitude, in.Longitude) {
		return nil, ErrInvalidLocation
	}
	if in.Title == "" {
		return nil, ErrEmptyTitle
	}

	var item models.Item
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("author_id = ? AND latitude = ? AND longitude = ?",
			authorID, in.Latitude, in.Longitude).First(&item).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var author models.Author
		if err := tx.First(&author, authorID).Error; err != nil {
			return err
		}
		status := models.ItemUnverified
		if author.Reputation >= config.Current.AutoVerifyReputation {
			status = models.ItemVerified
		}

		item = models.Item{
			Title:       in.Title,
			Description: in.Description,
			AuthorID:    authorID,
			Latitude:    in.Latitude,
			Longitude:   in.Longitude,
			Status:      status,
			IsAnonymous: in.IsAnonymous,
			IsFree:      in.IsFree,
			Gender:      in.Gender,
		}
		return tx.Create(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// AddComment upserts the author's comment on an item: one comment per
// (item, author), re-submitting replaces the body. New comments start at
// the base score so the first recount produces no reputation jump, and
// bump the item's activity counts.
func AddComment(itemID, authorID uint, description string, anonymous bool) (*models.Comment, error) {
	var comment models.Comment
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		item, err := lockItem(tx, itemID)
		if err != nil {
			return err
		}

		err = tx.Where("item_id = ? AND author_id = ?", itemID, authorID).First(&comment).Error
		switch {
		case err == nil:
			comment.Description = description
			comment.HTML = utils.RenderMarkdown(description)
			comment.IsAnonymous = anonymous
			return tx.Save(&comment).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			comment = models.Comment{
				ItemID:          itemID,
				AuthorID:        authorID,
				Description:     description,
				HTML:            utils.RenderMarkdown(description),
				IsAnonymous:     anonymous,
				ReactableCounts: models.ReactableCounts{Experience: models.BaseScore},
			}
			if err := tx.Create(&comment).Error; err != nil {
				return err
			}
			// Comment count feeds the item status
			return recalculateItem(tx, item)
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// AddPhoto attaches a photo to an item. No uniqueness here: an author may
// upload several photos of the same item.
func AddPhoto(itemID, authorID uint, picture string, anonymous bool) (*models.Photo, error) {
	var photo models.Photo
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		item, err := lockItem(tx, itemID)
		if err != nil {
			return err
		}

		photo = models.Photo{
			ItemID:          itemID,
			AuthorID:        authorID,
			Picture:         picture,
			IsAnonymous:     anonymous,
			ReactableCounts: models.ReactableCounts{Experience: models.BaseScore},
		}
		if err := tx.Create(&photo).Error; err != nil {
			return err
		}
		return recalculateItem(tx, item)
	})
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// FlagItem records the author's report of an item and re-derives the
// item's flag count and status. Flagging twice is a no-op.
func FlagItem(itemID, authorID uint) (*models.Item, error) {
	return mutateItemFlags(itemID, func(tx *gorm.DB) error {
		var existing models.ItemFlag
		err := tx.Where("item_id = ? AND author_id = ?", itemID, authorID).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&models.ItemFlag{ItemID: itemID, AuthorID: authorID}).Error
	})
}

// UnflagItem withdraws the author's report. Idempotent.
func UnflagItem(itemID, authorID uint) (*models.Item, error) {
	return mutateItemFlags(itemID, func(tx *gorm.DB) error {
		return tx.Where("item_id = ? AND author_id = ?", itemID, authorID).
			Delete(&models.ItemFlag{}).Error
	})
}

func mutateItemFlags(itemID uint, mutate func(*gorm.DB) error) (*models.Item, error) {
	var item *models.Item
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = lockItem(tx, itemID)
		if err != nil {
			return err
		}
		if err := mutate(tx); err != nil {
			return err
		}
		return recalculateItem(tx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ResolveAuthor returns the author behind an authenticated caller.
func ResolveAuthor(authorID uint) (*models.Author, error) {
	var author models.Author
	if err := db.DB.First(&author, authorID).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

// GetOrCreateAuthor finds an author by name or creates one. Used by the
// identity collaborator when a new user first authenticates.
func GetOrCreateAuthor(name, picture string) (*models.Author, error) {
	var author models.Author
	err := db.DB.Where("name = ?", name).First(&author).Error
	if err == nil {
		return &author, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	author = models.Author{Name: name, Picture: picture}
	if err := db.DB.Create(&author).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

// ItemsInBoundingBox lists items inside the given coordinate rectangle,
// with comment/photo counts filled in.
func ItemsInBoundingBox(minLat, maxLat, minLng, maxLng float64) ([]models.Item, error) {
	var items []models.Item
	err := db.DB.
		Where("latitude BETWEEN ? AND ?", minLat, maxLat).
		Where("longitude BETWEEN ? AND ?", minLng, maxLng).
		Where("status <> ?", models.ItemDeleted).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	if err := fillActivityCounts(items); err != nil {
		return nil, err
	}
	return items, nil
}

// ItemComments lists an item's comments, newest first.
func ItemComments(itemID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := db.DB.Preload("Author").
		Where("item_id = ?", itemID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

// ItemPhotos lists an item's photos, newest first.
func ItemPhotos(itemID uint) ([]models.Photo, error) {
	var photos []models.Photo
	err := db.DB.Preload("Author").
		Where("item_id = ?", itemID).
		Order("created_at DESC").
		Find(&photos).Error
	return photos, err
}

// AuthorActivity summarizes how much content an author has contributed.
type AuthorActivity struct {
	Items    int `json:"items"`
	Comments int `json:"comments"`
	Photos   int `json:"photos"`
	Ratings  int `json:"ratings"`
}

// ActivityFor counts an author's contributions for the profile surface.
func ActivityFor(authorID uint) (AuthorActivity, error) {
	var activity AuthorActivity
	count := func(model any, dst *int) error {
		var n int64
		if err := db.DB.Model(model).Where("author_id = ?", authorID).Count(&n).Error; err != nil {
			return err
		}
		*dst = int(n)
		return nil
	}
	if err := count(&models.Item{}, &activity.Items); err != nil {
		return activity, err
	}
	if err := count(&models.Comment{}, &activity.Comments); err != nil {
		return activity, err
	}
	if err := count(&models.Photo{}, &activity.Photos); err != nil {
		return activity, err
	}
	if err := count(&models.Rating{}, &activity.Ratings); err != nil {
		return activity, err
	}
	return activity, nil
}

// fillActivityCounts batch-fills the transient comment/photo counts.
func fillActivityCounts(items []models.Item) error {
	if len(items) == 0 {
		return nil
	}

	itemIDs := make([]uint, len(items))
	for i, item := range items {
		itemIDs[i] = item.ID
	}

	type countRow struct {
		ItemID uint
		Count  int
	}
	group := func(model any) (map[uint]int, error) {
		var rows []countRow
		err := db.DB.Model(model).
			Select("item_id, COUNT(*) as count").
			Where("item_id IN ?", itemIDs).
			Group("item_id").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		byItem := make(map[uint]int, len(rows))
		for _, r := range rows {
			byItem[r.ItemID] = r.Count
		}
		return byItem, nil
	}

	comments, err := group(&models.Comment{})
	if err != nil {
		return err
	}
	photos, err := group(&models.Photo{})
	if err != nil {
		return err
	}

	for i := range items {
		items[i].CommentCount = comments[items[i].ID]
		items[i].PhotoCount = photos[items[i].ID]
	}
	return nil
}
