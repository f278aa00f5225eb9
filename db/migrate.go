package db

import (
	"fmt"
	"log"

	"github.com/mentortyme/backend/models"
)

// Migrate runs AutoMigrate over every model. Called on startup when
// AUTO_MIGRATE is set; production schemas are managed externally.
func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Service{},
		&models.WorkingHour{},
		&models.Booking{},
		&models.Review{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	fmt.Println("✅ Migrations applied successfully!")
}
