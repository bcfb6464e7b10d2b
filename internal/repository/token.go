// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"time"

	"hoaxify/internal/models"

	"gorm.io/gorm"
)

// TokenRepository defines persistence operations for bearer tokens.
type TokenRepository interface {
	Create(ctx context.Context, token *models.Token) error
	// FindActive returns the token row only if its LastUsedAt is after the
	// cutoff. Stale and missing tokens are both gorm.ErrRecordNotFound, so
	// callers cannot distinguish the two.
	FindActive(ctx context.Context, tokenValue string, cutoff time.Time) (*models.Token, error)
	// Touch sets LastUsedAt to usedAt. The guard keeps LastUsedAt
	// monotonically non-decreasing under concurrent refreshes.
	Touch(ctx context.Context, tokenValue string, usedAt time.Time) error
	Delete(ctx context.Context, tokenValue string) error
	DeleteByUser(ctx context.Context, userID uint) error
	// DeleteLastUsedBefore removes every token idle since before the cutoff
	// and returns the number of rows removed.
	DeleteLastUsedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository returns a new TokenRepository implementation.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, token *models.Token) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *tokenRepository) FindActive(ctx context.Context, tokenValue string, cutoff time.Time) (*models.Token, error) {
	var token models.Token
	if err := r.db.WithContext(ctx).
		Where("token = ? AND last_used_at > ?", tokenValue, cutoff).
		First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) Touch(ctx context.Context, tokenValue string, usedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Token{}).
		Where("token = ? AND last_used_at <= ?", tokenValue, usedAt).
		Update("last_used_at", usedAt).Error
}

func (r *tokenRepository) Delete(ctx context.Context, tokenValue string) error {
	return r.db.WithContext(ctx).Where("token = ?", tokenValue).Delete(&models.Token{}).Error
}

func (r *tokenRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Token{}).Error
}

func (r *tokenRepository) DeleteLastUsedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("last_used_at < ?", cutoff).Delete(&models.Token{})
	return res.RowsAffected, res.Error
}
