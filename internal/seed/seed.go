// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"hoaxify/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the plaintext password every seeded user gets.
const DefaultPassword = "P4ssword"

// Seeder populates the database with demo data.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded data. Deletion order follows the foreign key
// chain: tokens and attachments first, then hoaxes, then users.
func (s *Seeder) ClearAll() error {
	for _, model := range []interface{}{
		&models.Token{},
		&models.Attachment{},
		&models.Hoax{},
		&models.User{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	log.Println("database cleared")
	return nil
}

// SeedUsers creates count active users with the default password.
func (s *Seeder) SeedUsers(count int) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		user := models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:    fmt.Sprintf("user%d@%s", i, gofakeit.DomainName()),
			Password: string(hash),
			Inactive: false,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("create user %d: %w", i, err)
		}
		users = append(users, user)
	}
	log.Printf("seeded %d users", len(users))
	return users, nil
}

// SeedHoaxes creates count hoaxes spread across the given users, with
// timestamps scattered over the last 90 days.
func (s *Seeder) SeedHoaxes(users []models.User, count int) error {
	if len(users) == 0 {
		return fmt.Errorf("no users to attach hoaxes to")
	}

	for i := 0; i < count; i++ {
		owner := users[s.rng.Intn(len(users))]
		postedAt := time.Now().
			Add(-time.Duration(s.rng.Intn(90*24)) * time.Hour).
			Add(-time.Duration(s.rng.Intn(60)) * time.Minute)

		hoax := models.Hoax{
			Content:   gofakeit.Paragraph(1, 2, 8, " "),
			Timestamp: postedAt.UnixMilli(),
			UserID:    owner.ID,
		}
		if err := s.db.Create(&hoax).Error; err != nil {
			return fmt.Errorf("create hoax %d: %w", i, err)
		}
	}
	log.Printf("seeded %d hoaxes", count)
	return nil
}
