package service

import (
	"context"
	"strings"
	"time"

	"hoaxify/internal/models"
	"hoaxify/internal/repository"
)

const (
	minHoaxContentLength = 10
	maxHoaxContentLength = 5000
)

// HoaxService handles hoax submission and listing.
type HoaxService struct {
	repo        repository.HoaxRepository
	users       repository.UserRepository
	attachments *AttachmentService
	now         func() time.Time
}

// NewHoaxService returns a HoaxService over the given collaborators.
func NewHoaxService(repo repository.HoaxRepository, users repository.UserRepository, attachments *AttachmentService) *HoaxService {
	return &HoaxService{
		repo:        repo,
		users:       users,
		attachments: attachments,
		now:         time.Now,
	}
}

// CreateHoax stores a new hoax for the user and, when attachmentID is
// non-zero, claims that attachment for it. The hoax is created even when the
// claim is lost; the attachment simply stays with its winner.
func (s *HoaxService) CreateHoax(ctx context.Context, userID uint, content string, attachmentID uint) (*models.Hoax, error) {
	content = strings.TrimSpace(content)
	if len(content) < minHoaxContentLength || len(content) > maxHoaxContentLength {
		return nil, models.NewValidationError("Hoax must be at least 10 and at most 5000 characters")
	}

	hoax := &models.Hoax{
		Content:   content,
		Timestamp: s.now().UnixMilli(),
		UserID:    userID,
	}
	if err := s.repo.Create(ctx, hoax); err != nil {
		return nil, models.NewInternalError(err)
	}

	if attachmentID != 0 {
		if err := s.attachments.AssociateToHoax(ctx, attachmentID, hoax.ID); err != nil {
			return nil, err
		}
	}
	return hoax, nil
}

// GetHoaxes returns a page of hoaxes, newest first. With a non-zero userID
// the listing is scoped to that user; an unknown user is a NotFound, not an
// empty page.
func (s *HoaxService) GetHoaxes(ctx context.Context, page, size int, userID uint) (*Page, error) {
	if userID != 0 {
		if _, err := s.users.GetByID(ctx, userID); err != nil {
			return nil, err
		}
	}

	page, size = normalizePaging(page, size)
	hoaxes, total, err := s.repo.List(ctx, size, page*size, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &Page{
		Content:    hoaxes,
		Page:       page,
		Size:       size,
		TotalPages: totalPages(total, size),
	}, nil
}
