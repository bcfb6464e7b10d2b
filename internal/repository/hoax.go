package repository

import (
	"context"

	"hoaxify/internal/models"

	"gorm.io/gorm"
)

// HoaxRepository defines persistence operations for hoaxes.
type HoaxRepository interface {
	Create(ctx context.Context, hoax *models.Hoax) error
	// GetByIDAndUser returns the hoax only when it is owned by userID.
	GetByIDAndUser(ctx context.Context, id, userID uint) (*models.Hoax, error)
	// List returns hoaxes newest first with attachment and owner preloaded,
	// plus the total row count. userID of 0 lists across all users.
	List(ctx context.Context, limit, offset int, userID uint) ([]models.Hoax, int64, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Hoax, error)
	Delete(ctx context.Context, id uint) error
	DeleteByUser(ctx context.Context, userID uint) error
}

type hoaxRepository struct {
	db *gorm.DB
}

// NewHoaxRepository returns a new HoaxRepository implementation.
func NewHoaxRepository(db *gorm.DB) HoaxRepository {
	return &hoaxRepository{db: db}
}

func (r *hoaxRepository) Create(ctx context.Context, hoax *models.Hoax) error {
	return r.db.WithContext(ctx).Create(hoax).Error
}

func (r *hoaxRepository) GetByIDAndUser(ctx context.Context, id, userID uint) (*models.Hoax, error) {
	var hoax models.Hoax
	if err := r.db.WithContext(ctx).
		Preload("Attachment").
		Where("id = ? AND user_id = ?", id, userID).
		First(&hoax).Error; err != nil {
		return nil, err
	}
	return &hoax, nil
}

func (r *hoaxRepository) List(ctx context.Context, limit, offset int, userID uint) ([]models.Hoax, int64, error) {
	var hoaxes []models.Hoax
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Hoax{})
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.
		Preload("User").
		Preload("Attachment").
		Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&hoaxes).Error; err != nil {
		return nil, 0, err
	}
	return hoaxes, total, nil
}

func (r *hoaxRepository) ListByUser(ctx context.Context, userID uint) ([]models.Hoax, error) {
	var hoaxes []models.Hoax
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&hoaxes).Error
	return hoaxes, err
}

func (r *hoaxRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Hoax{}, id).Error
}

func (r *hoaxRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Hoax{}).Error
}
