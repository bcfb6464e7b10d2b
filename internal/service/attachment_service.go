package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"hoaxify/internal/blob"
	"hoaxify/internal/middleware"
	"hoaxify/internal/models"
	"hoaxify/internal/repository"

	"gorm.io/gorm"
)

const (
	// OrphanGracePeriod is how long an uploaded attachment may stay unbound
	// before the sweep reclaims it.
	OrphanGracePeriod = 24 * time.Hour

	orphanSweepInterval = 24 * time.Hour
)

// allowedAttachmentTypes maps sniffed content types to the stored file type.
// Uploads outside this set keep an empty FileType; clients declared types are
// never trusted.
var allowedAttachmentTypes = map[string]string{
	"image/png":       "image/png",
	"image/jpeg":      "image/jpeg",
	"image/gif":       "image/gif",
	"application/pdf": "application/pdf",
}

// AttachmentService owns the attachment lifecycle: upload, binding to a
// hoax, removal, and the orphan sweep.
type AttachmentService struct {
	repo         repository.AttachmentRepository
	blobs        *blob.Store
	maxSizeBytes int64
	logger       *slog.Logger
	now          func() time.Time
	sweepOnce    sync.Once
}

// NewAttachmentService returns an AttachmentService enforcing the given
// upload size cap.
func NewAttachmentService(repo repository.AttachmentRepository, blobs *blob.Store, maxSizeBytes int64) *AttachmentService {
	return &AttachmentService{
		repo:         repo,
		blobs:        blobs,
		maxSizeBytes: maxSizeBytes,
		logger:       middleware.Logger,
		now:          time.Now,
	}
}

// SaveAttachment stores an uploaded file and records it, unbound, for later
// association with a hoax. The size cap is checked before any side effect so
// an oversized upload leaves no trace. The stored file type comes from
// content sniffing, never from the client.
func (s *AttachmentService) SaveAttachment(ctx context.Context, data []byte) (*models.Attachment, error) {
	if int64(len(data)) > s.maxSizeBytes {
		return nil, models.NewPayloadTooLargeError(s.maxSizeBytes)
	}

	key, err := s.blobs.Save(blob.ClassAttachment, data)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	attachment := &models.Attachment{
		Filename:   key,
		FileType:   detectFileType(data),
		UploadDate: s.now(),
	}
	if err := s.repo.Create(ctx, attachment); err != nil {
		// Roll back the blob so a failed row insert does not strand a file.
		if delErr := s.blobs.Delete(blob.ClassAttachment, key); delErr != nil {
			s.logger.ErrorContext(ctx, "attachment blob rollback failed",
				slog.String("key", key), slog.String("error", delErr.Error()))
		}
		return nil, models.NewInternalError(err)
	}
	return attachment, nil
}

// AssociateToHoax claims the attachment for the hoax. A missing or
// already-bound attachment is a silent no-op: hoax creation never fails over
// a stale attachment id, and at most one hoax can ever win the claim.
func (s *AttachmentService) AssociateToHoax(ctx context.Context, attachmentID, hoaxID uint) error {
	claimed, err := s.repo.BindToHoax(ctx, attachmentID, hoaxID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if !claimed {
		s.logger.InfoContext(ctx, "attachment claim lost",
			slog.Uint64("attachment_id", uint64(attachmentID)),
			slog.Uint64("hoax_id", uint64(hoaxID)))
	}
	return nil
}

// RemoveForHoax deletes the hoax's attachment, blob first then row. A hoax
// with no attachment is a no-op. Blob deletion failures are logged and
// counted but never block the row delete; the row is the source of truth.
func (s *AttachmentService) RemoveForHoax(ctx context.Context, hoaxID uint) error {
	attachment, err := s.repo.GetByHoaxID(ctx, hoaxID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return models.NewInternalError(err)
	}

	s.deleteBlob(ctx, attachment.Filename)
	if err := s.repo.Delete(ctx, attachment.ID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// SweepOrphans removes attachments that were never bound to a hoax within
// the grace period and returns the number of rows removed. A blob that fails
// to delete does not keep its row alive.
func (s *AttachmentService) SweepOrphans(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-OrphanGracePeriod)
	orphans, err := s.repo.ListOrphansBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	var removed int64
	for _, orphan := range orphans {
		s.deleteBlob(ctx, orphan.Filename)
		if err := s.repo.Delete(ctx, orphan.ID); err != nil {
			s.logger.ErrorContext(ctx, "orphan row delete failed",
				slog.Uint64("attachment_id", uint64(orphan.ID)),
				slog.String("error", err.Error()))
			continue
		}
		removed++
	}
	return removed, nil
}

// StartOrphanSweep starts the recurring orphan sweep. It runs until ctx is
// cancelled.
func (s *AttachmentService) StartOrphanSweep(ctx context.Context) {
	s.sweepOnce.Do(func() {
		go s.orphanLoop(ctx)
	})
}

func (s *AttachmentService) orphanLoop(ctx context.Context) {
	ticker := time.NewTicker(orphanSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.SweepOrphans(ctx)
			if err != nil {
				middleware.SweepFailures.WithLabelValues("attachment").Inc()
				s.logger.ErrorContext(ctx, "orphan sweep failed", slog.String("error", err.Error()))
				continue
			}
			if removed > 0 {
				middleware.OrphanAttachmentsSwept.Add(float64(removed))
				s.logger.InfoContext(ctx, "orphan sweep completed", slog.Int64("removed", removed))
			}
		}
	}
}

func (s *AttachmentService) deleteBlob(ctx context.Context, key string) {
	if err := s.blobs.Delete(blob.ClassAttachment, key); err != nil {
		middleware.BlobDeleteFailures.WithLabelValues(string(blob.ClassAttachment)).Inc()
		s.logger.ErrorContext(ctx, "attachment blob delete failed",
			slog.String("key", key), slog.String("error", err.Error()))
	}
}

// detectFileType sniffs the content type from the leading bytes and returns
// it only when it is in the allowed set.
func detectFileType(data []byte) string {
	sniffed := http.DetectContentType(data)
	return allowedAttachmentTypes[sniffed]
}
