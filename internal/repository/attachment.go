package repository

import (
	"context"
	"time"

	"hoaxify/internal/models"

	"gorm.io/gorm"
)

// AttachmentRepository defines persistence operations for hoax attachments.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *models.Attachment) error
	GetByID(ctx context.Context, id uint) (*models.Attachment, error)
	GetByHoaxID(ctx context.Context, hoaxID uint) (*models.Attachment, error)
	// BindToHoax claims an unbound attachment for the hoax. Returns true when
	// this call won the claim; false when the attachment does not exist or is
	// already bound (to this or any hoax).
	BindToHoax(ctx context.Context, id, hoaxID uint) (bool, error)
	ListOrphansBefore(ctx context.Context, cutoff time.Time) ([]models.Attachment, error)
	Delete(ctx context.Context, id uint) error
}

type attachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository returns a new AttachmentRepository implementation.
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *models.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

func (r *attachmentRepository) GetByID(ctx context.Context, id uint) (*models.Attachment, error) {
	var attachment models.Attachment
	if err := r.db.WithContext(ctx).First(&attachment, id).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *attachmentRepository) GetByHoaxID(ctx context.Context, hoaxID uint) (*models.Attachment, error) {
	var attachment models.Attachment
	if err := r.db.WithContext(ctx).Where("hoax_id = ?", hoaxID).First(&attachment).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *attachmentRepository) BindToHoax(ctx context.Context, id, hoaxID uint) (bool, error) {
	// Conditional update: only an unbound row can be claimed, so exactly one
	// of any number of concurrent binders observes RowsAffected == 1.
	res := r.db.WithContext(ctx).Model(&models.Attachment{}).
		Where("id = ? AND hoax_id IS NULL", id).
		Update("hoax_id", hoaxID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *attachmentRepository) ListOrphansBefore(ctx context.Context, cutoff time.Time) ([]models.Attachment, error) {
	var orphans []models.Attachment
	err := r.db.WithContext(ctx).
		Where("hoax_id IS NULL AND upload_date < ?", cutoff).
		Find(&orphans).Error
	return orphans, err
}

func (r *attachmentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Attachment{}, id).Error
}
