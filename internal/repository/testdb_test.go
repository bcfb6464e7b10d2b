package repository

import (
	"testing"

	"hoaxify/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Hoax{},
		&models.Attachment{},
		&models.Token{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		Inactive: false,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	// gorm omits zero-value fields whose column has a default (inactive
	// defaults to true), so force the intended active state explicitly.
	if err := db.Model(user).UpdateColumn("inactive", false).Error; err != nil {
		t.Fatalf("Failed to mark test user active: %v", err)
	}
	return user
}
