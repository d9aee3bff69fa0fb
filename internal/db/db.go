package db

import (
	"log"
	"os"

	"hermes/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=hermes port=5432 sslmode=disable"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")
}

// Migrate creates or updates the schema. Split out from Init so tests can
// run it against their own gorm instance.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.Author{},
		&models.Item{},
		&models.Rating{},
		&models.Comment{},
		&models.Photo{},
		&models.Reaction{},
		&models.ItemFlag{},
		&models.ReputationLog{},
	)
}
