package service

import (
	"context"
	"errors"
	"log/slog"

	"hoaxify/internal/blob"
	"hoaxify/internal/middleware"
	"hoaxify/internal/models"
	"hoaxify/internal/repository"

	"gorm.io/gorm"
)

// CascadeService coordinates multi-resource deletions. Ordering is fixed so
// a crash mid-cascade can only leave orphaned blobs (reclaimable by the
// sweep), never dangling relational references: tokens first, then each
// hoax's attachment, then hoaxes, then the profile image, then the user row.
type CascadeService struct {
	users       repository.UserRepository
	hoaxes      repository.HoaxRepository
	tokens      *TokenService
	attachments *AttachmentService
	blobs       *blob.Store
	logger      *slog.Logger
}

// NewCascadeService returns a CascadeService over the given collaborators.
func NewCascadeService(
	users repository.UserRepository,
	hoaxes repository.HoaxRepository,
	tokens *TokenService,
	attachments *AttachmentService,
	blobs *blob.Store,
) *CascadeService {
	return &CascadeService{
		users:       users,
		hoaxes:      hoaxes,
		tokens:      tokens,
		attachments: attachments,
		blobs:       blobs,
		logger:      middleware.Logger,
	}
}

// DeleteUser removes the user and everything they own. Deleting a user that
// no longer exists succeeds: the end state is what matters. Blob deletion
// failures are logged and counted but never abort the cascade; any
// relational failure does abort, leaving the remainder for a retry.
func (s *CascadeService) DeleteUser(ctx context.Context, userID uint) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
			return nil
		}
		return err
	}

	// Sessions die first so no request can act on the account mid-cascade.
	if err := s.tokens.ClearTokens(ctx, userID); err != nil {
		return err
	}

	hoaxes, err := s.hoaxes.ListByUser(ctx, userID)
	if err != nil {
		return models.NewInternalError(err)
	}
	for _, hoax := range hoaxes {
		if err := s.attachments.RemoveForHoax(ctx, hoax.ID); err != nil {
			return err
		}
	}
	if err := s.hoaxes.DeleteByUser(ctx, userID); err != nil {
		return models.NewInternalError(err)
	}

	if user.Image != "" {
		if err := s.blobs.Delete(blob.ClassProfile, user.Image); err != nil {
			middleware.BlobDeleteFailures.WithLabelValues(string(blob.ClassProfile)).Inc()
			s.logger.ErrorContext(ctx, "profile blob delete failed",
				slog.String("key", user.Image), slog.String("error", err.Error()))
		}
	}

	return s.users.Delete(ctx, userID)
}

// DeleteHoax removes a hoax and its attachment on behalf of its owner. A
// hoax that does not exist or belongs to someone else yields the same
// Forbidden error, so callers cannot probe for other users' hoax ids.
func (s *CascadeService) DeleteHoax(ctx context.Context, hoaxID, userID uint) error {
	hoax, err := s.hoaxes.GetByIDAndUser(ctx, hoaxID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewForbiddenError("You are not authorized to delete this hoax")
		}
		return models.NewInternalError(err)
	}

	if err := s.attachments.RemoveForHoax(ctx, hoax.ID); err != nil {
		return err
	}
	if err := s.hoaxes.Delete(ctx, hoax.ID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
