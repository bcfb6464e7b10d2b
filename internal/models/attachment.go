package models

import "time"

// Attachment represents an uploaded file that may be bound to a hoax.
//
// An attachment is created before its hoax exists, with HoaxID nil. It is
// claimed at most once (first claim wins) or garbage collected once the grace
// period passes. Filename is the blob-store key; FileType is the MIME type
// sniffed from the bytes at upload time, empty when unrecognized.
type Attachment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Filename   string    `gorm:"not null" json:"filename"`
	FileType   string    `json:"file_type"`
	UploadDate time.Time `gorm:"not null" json:"-"`
	HoaxID     *uint     `gorm:"index" json:"-"`
}
