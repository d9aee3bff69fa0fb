package main

import (
	"log"

	"hermes/internal/config"
	"hermes/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	if err := config.Load(); err != nil {
		log.Fatalf("Bad configuration: %v", err)
	}

	db.Init()

	log.Println("hermes schema is up to date")
}
