// Package service implements the application's business logic.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"hoaxify/internal/middleware"
	"hoaxify/internal/models"
	"hoaxify/internal/repository"

	"gorm.io/gorm"
)

const (
	// TokenInactivityWindow is the sliding-expiration window: a token is
	// rejected once it has gone unused for this long. Regular use extends its
	// life indefinitely.
	TokenInactivityWindow = 7 * 24 * time.Hour

	// tokenCleanupInterval is the cadence of the expired-token sweep. The
	// sweep, not verification, is what reclaims storage for abandoned tokens.
	tokenCleanupInterval = time.Hour

	// tokenRandomBytes gives 256 bits of entropy, hex encoded to 64 chars.
	tokenRandomBytes = 32
)

// TokenService manages opaque bearer tokens with sliding-window expiration.
type TokenService struct {
	repo      repository.TokenRepository
	logger    *slog.Logger
	now       func() time.Time
	sweepOnce sync.Once
}

// NewTokenService returns a TokenService over the given repository.
func NewTokenService(repo repository.TokenRepository) *TokenService {
	return &TokenService{
		repo:   repo,
		logger: middleware.Logger,
		now:    time.Now,
	}
}

// CreateToken issues a new token for the user and persists it with
// LastUsedAt set to now.
func (s *TokenService) CreateToken(ctx context.Context, userID uint) (string, error) {
	value, err := randomHex(tokenRandomBytes)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	token := &models.Token{
		Token:      value,
		UserID:     userID,
		LastUsedAt: s.now(),
	}
	if err := s.repo.Create(ctx, token); err != nil {
		return "", models.NewInternalError(err)
	}
	return value, nil
}

// Verify resolves a token to its owning user id and refreshes LastUsedAt
// before returning, extending the sliding window.
//
// Missing, expired and storage-failure cases all surface as the same
// Unauthenticated error so responses never reveal whether a token ever
// existed. Expired tokens are rejected here but reclaimed only by the sweep.
func (s *TokenService) Verify(ctx context.Context, tokenValue string) (uint, error) {
	if tokenValue == "" {
		return 0, models.NewUnauthenticatedError()
	}

	cutoff := s.now().Add(-TokenInactivityWindow)
	token, err := s.repo.FindActive(ctx, tokenValue, cutoff)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.ErrorContext(ctx, "token lookup failed", slog.String("error", err.Error()))
		}
		return 0, models.NewUnauthenticatedError()
	}

	// Refresh synchronously so a burst of concurrent requests each extend the
	// window. Concurrent refreshes commute: all set the same "now".
	if err := s.repo.Touch(ctx, tokenValue, s.now()); err != nil {
		s.logger.ErrorContext(ctx, "token refresh failed", slog.String("error", err.Error()))
		return 0, models.NewUnauthenticatedError()
	}

	return token.UserID, nil
}

// DeleteToken removes a single token. Absence is not an error.
func (s *TokenService) DeleteToken(ctx context.Context, tokenValue string) error {
	if err := s.repo.Delete(ctx, tokenValue); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ClearTokens removes every token owned by the user. Used on password reset
// and account deletion.
func (s *TokenService) ClearTokens(ctx context.Context, userID uint) error {
	if err := s.repo.DeleteByUser(ctx, userID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// SweepExpired deletes every token idle for longer than the inactivity
// window and returns the number removed.
func (s *TokenService) SweepExpired(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-TokenInactivityWindow)
	return s.repo.DeleteLastUsedBefore(ctx, cutoff)
}

// StartCleanup starts the recurring expired-token sweep. It runs until ctx
// is cancelled; a failed cycle is logged and retried at the next tick.
func (s *TokenService) StartCleanup(ctx context.Context) {
	s.sweepOnce.Do(func() {
		go s.cleanupLoop(ctx)
	})
}

func (s *TokenService) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(tokenCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.SweepExpired(ctx)
			if err != nil {
				middleware.SweepFailures.WithLabelValues("token").Inc()
				s.logger.ErrorContext(ctx, "token sweep failed", slog.String("error", err.Error()))
				continue
			}
			if removed > 0 {
				middleware.TokensSwept.Add(float64(removed))
				s.logger.InfoContext(ctx, "token sweep completed", slog.Int64("removed", removed))
			}
		}
	}
}
