package services

import (
	"fmt"
	"testing"

	"hermes/internal/db"
	"hermes/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points db.DB at a fresh in-memory sqlite database for the
// duration of one test.
func setupTestDB(t *testing.T) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Every connection to :memory: is its own database; keep one.
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	prev := db.DB
	db.DB = gdb
	t.Cleanup(func() {
		db.DB = prev
		sqlDB.Close()
	})
}

func seedAuthor(t *testing.T, name string) *models.Author {
	t.Helper()
	author := models.Author{Name: name}
	if err := db.DB.Create(&author).Error; err != nil {
		t.Fatalf("seed author %s: %v", name, err)
	}
	return &author
}

func seedAuthors(t *testing.T, n int) []*models.Author {
	t.Helper()
	authors := make([]*models.Author, n)
	for i := range authors {
		authors[i] = seedAuthor(t, fmt.Sprintf("author-%d", i))
	}
	return authors
}

func seedItem(t *testing.T, authorID uint) *models.Item {
	t.Helper()
	item := models.Item{
		Title:     "Central Station washroom",
		AuthorID:  authorID,
		Latitude:  43.65,
		Longitude: -79.38,
		Status:    models.ItemUnverified,
		IsFree:    true,
		Gender:    models.WashroomBoth,
	}
	if err := db.DB.Create(&item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return &item
}

func seedComment(t *testing.T, itemID, authorID uint) *models.Comment {
	t.Helper()
	comment := models.Comment{
		ItemID:          itemID,
		AuthorID:        authorID,
		Description:     "clean and easy to find",
		ReactableCounts: models.ReactableCounts{Experience: models.BaseScore},
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		t.Fatalf("seed comment: %v", err)
	}
	return &comment
}

func seedPhoto(t *testing.T, itemID, authorID uint) *models.Photo {
	t.Helper()
	photo := models.Photo{
		ItemID:          itemID,
		AuthorID:        authorID,
		Picture:         "https://media.example/p.jpg",
		ReactableCounts: models.ReactableCounts{Experience: models.BaseScore},
	}
	if err := db.DB.Create(&photo).Error; err != nil {
		t.Fatalf("seed photo: %v", err)
	}
	return &photo
}

func reputationOf(t *testing.T, authorID uint) float64 {
	t.Helper()
	var author models.Author
	if err := db.DB.First(&author, authorID).Error; err != nil {
		t.Fatalf("reload author %d: %v", authorID, err)
	}
	return author.Reputation
}

func reactionCount(t *testing.T, where string, args ...any) int {
	t.Helper()
	var n int64
	if err := db.DB.Model(&models.Reaction{}).Where(where, args...).Count(&n).Error; err != nil {
		t.Fatalf("count reactions: %v", err)
	}
	return int(n)
}
