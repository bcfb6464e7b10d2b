// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered account in the Hoaxify application.
//
// Image holds the blob-store key of the profile image, never the uploaded
// filename. A user exclusively owns its tokens and hoaxes; deleting a user
// must cascade through all three stores (see service.CascadeService).
type User struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Username           string    `gorm:"unique;not null" json:"username"`
	Email              string    `gorm:"unique;not null" json:"email"`
	Password           string    `gorm:"not null" json:"-"`
	Image              string    `json:"image"`
	Inactive           bool      `gorm:"not null;default:true" json:"-"`
	ActivationToken    string    `json:"-"`
	PasswordResetToken string    `json:"-"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	Hoaxes             []Hoax    `gorm:"foreignKey:UserID" json:"hoaxes,omitempty"`
}
