// Package blob implements the filesystem-backed binary object store.
//
// Blobs live in one directory per class under a common root. Keys are
// generated, never derived from uploaded filenames, so concurrent writers
// cannot collide and keys reveal nothing about the upload. The store is
// mutated only by the attachment lifecycle and the cascade coordinator;
// relational rows stay the source of truth for which blobs should exist.
package blob

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Class selects the namespace a blob is stored under.
type Class string

const (
	// ClassProfile holds user profile images.
	ClassProfile Class = "profile"
	// ClassAttachment holds hoax attachments.
	ClassAttachment Class = "attachment"
)

// Store reads and writes blobs under a root directory.
type Store struct {
	dirs map[Class]string
}

// NewStore creates the directory tree for both classes (idempotent) and
// returns a ready store.
func NewStore(rootDir, profileDir, attachmentDir string) (*Store, error) {
	dirs := map[Class]string{
		ClassProfile:    filepath.Join(rootDir, profileDir),
		ClassAttachment: filepath.Join(rootDir, attachmentDir),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create blob directory %s: %w", dir, err)
		}
	}
	return &Store{dirs: dirs}, nil
}

// Save writes data under a freshly generated key and returns the key.
func (s *Store) Save(class Class, data []byte) (string, error) {
	key := uuid.NewString()
	path, err := s.path(class, key)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write blob %s/%s: %w", class, key, err)
	}
	return key, nil
}

// Delete removes the blob if it exists. A missing file is a valid terminal
// state, not an error.
func (s *Store) Delete(class Class, key string) error {
	path, err := s.path(class, key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob %s/%s: %w", class, key, err)
	}
	return nil
}

// Read returns the blob contents. Used by the static-serving layer.
func (s *Store) Read(class Class, key string) ([]byte, error) {
	path, err := s.path(class, key)
	if err != nil {
		return nil, err
	}
	// #nosec G304: path components are a store-owned directory and a validated key
	return os.ReadFile(path)
}

// Exists reports whether a blob is present on disk.
func (s *Store) Exists(class Class, key string) bool {
	path, err := s.path(class, key)
	if err != nil {
		return false
	}
	_, statErr := os.Stat(path)
	return statErr == nil
}

func (s *Store) path(class Class, key string) (string, error) {
	dir, ok := s.dirs[class]
	if !ok {
		return "", fmt.Errorf("unknown blob class %q", class)
	}
	// Keys are store-generated UUIDs; reject anything that could escape the
	// class directory when handed back from untrusted input.
	if key == "" || key == "." || key == ".." || filepath.Base(key) != key {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(dir, key), nil
}
