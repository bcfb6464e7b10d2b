package models

import "time"

// Token is an opaque bearer credential with sliding-window expiration.
//
// The token value is random (256 bits, hex encoded) and globally unique.
// LastUsedAt is bumped on every successful verification and is monotonically
// non-decreasing for a given token; a token unused for the full inactivity
// window is rejected by verification and reclaimed by the hourly sweep.
type Token struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	Token      string    `gorm:"size:64;not null;uniqueIndex" json:"token"`
	UserID     uint      `gorm:"not null;index" json:"-"`
	LastUsedAt time.Time `gorm:"not null" json:"-"`
}
