package models

// Hoax represents a post in the Hoaxify application.
//
// Timestamp is unix milliseconds, preserved from the public API shape. A hoax
// owns at most one attachment; deleting the hoax deletes the attachment row
// and its blob.
type Hoax struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Content    string      `gorm:"type:text;not null" json:"content"`
	Timestamp  int64       `gorm:"not null" json:"timestamp"`
	UserID     uint        `gorm:"not null;index" json:"user_id"`
	User       User        `gorm:"foreignKey:UserID" json:"user"`
	Attachment *Attachment `gorm:"foreignKey:HoaxID" json:"attachment,omitempty"`
}
