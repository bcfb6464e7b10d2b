package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"hoaxify/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// tokenRepoStub is a stub for repository.TokenRepository.
type tokenRepoStub struct {
	createFn               func(context.Context, *models.Token) error
	findActiveFn           func(context.Context, string, time.Time) (*models.Token, error)
	touchFn                func(context.Context, string, time.Time) error
	deleteFn               func(context.Context, string) error
	deleteByUserFn         func(context.Context, uint) error
	deleteLastUsedBeforeFn func(context.Context, time.Time) (int64, error)
}

func (s *tokenRepoStub) Create(ctx context.Context, token *models.Token) error {
	return s.createFn(ctx, token)
}
func (s *tokenRepoStub) FindActive(ctx context.Context, tokenValue string, cutoff time.Time) (*models.Token, error) {
	return s.findActiveFn(ctx, tokenValue, cutoff)
}
func (s *tokenRepoStub) Touch(ctx context.Context, tokenValue string, usedAt time.Time) error {
	return s.touchFn(ctx, tokenValue, usedAt)
}
func (s *tokenRepoStub) Delete(ctx context.Context, tokenValue string) error {
	return s.deleteFn(ctx, tokenValue)
}
func (s *tokenRepoStub) DeleteByUser(ctx context.Context, userID uint) error {
	return s.deleteByUserFn(ctx, userID)
}
func (s *tokenRepoStub) DeleteLastUsedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.deleteLastUsedBeforeFn(ctx, cutoff)
}

func noopTokenRepo() *tokenRepoStub {
	return &tokenRepoStub{
		createFn: func(_ context.Context, _ *models.Token) error { return nil },
		findActiveFn: func(_ context.Context, _ string, _ time.Time) (*models.Token, error) {
			return nil, gorm.ErrRecordNotFound
		},
		touchFn:                func(_ context.Context, _ string, _ time.Time) error { return nil },
		deleteFn:               func(_ context.Context, _ string) error { return nil },
		deleteByUserFn:         func(_ context.Context, _ uint) error { return nil },
		deleteLastUsedBeforeFn: func(_ context.Context, _ time.Time) (int64, error) { return 0, nil },
	}
}

// attachmentRepoStub is a stub for repository.AttachmentRepository.
type attachmentRepoStub struct {
	createFn            func(context.Context, *models.Attachment) error
	getByIDFn           func(context.Context, uint) (*models.Attachment, error)
	getByHoaxIDFn       func(context.Context, uint) (*models.Attachment, error)
	bindToHoaxFn        func(context.Context, uint, uint) (bool, error)
	listOrphansBeforeFn func(context.Context, time.Time) ([]models.Attachment, error)
	deleteFn            func(context.Context, uint) error
}

func (s *attachmentRepoStub) Create(ctx context.Context, attachment *models.Attachment) error {
	return s.createFn(ctx, attachment)
}
func (s *attachmentRepoStub) GetByID(ctx context.Context, id uint) (*models.Attachment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *attachmentRepoStub) GetByHoaxID(ctx context.Context, hoaxID uint) (*models.Attachment, error) {
	return s.getByHoaxIDFn(ctx, hoaxID)
}
func (s *attachmentRepoStub) BindToHoax(ctx context.Context, id, hoaxID uint) (bool, error) {
	return s.bindToHoaxFn(ctx, id, hoaxID)
}
func (s *attachmentRepoStub) ListOrphansBefore(ctx context.Context, cutoff time.Time) ([]models.Attachment, error) {
	return s.listOrphansBeforeFn(ctx, cutoff)
}
func (s *attachmentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopAttachmentRepo() *attachmentRepoStub {
	return &attachmentRepoStub{
		createFn: func(_ context.Context, _ *models.Attachment) error { return nil },
		getByIDFn: func(_ context.Context, _ uint) (*models.Attachment, error) {
			return nil, gorm.ErrRecordNotFound
		},
		getByHoaxIDFn: func(_ context.Context, _ uint) (*models.Attachment, error) {
			return nil, gorm.ErrRecordNotFound
		},
		bindToHoaxFn: func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		listOrphansBeforeFn: func(_ context.Context, _ time.Time) ([]models.Attachment, error) {
			return nil, nil
		},
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn                 func(context.Context, uint) (*models.User, error)
	getByEmailFn              func(context.Context, string) (*models.User, error)
	getByActivationTokenFn    func(context.Context, string) (*models.User, error)
	getByPasswordResetTokenFn func(context.Context, string) (*models.User, error)
	createFn                  func(context.Context, *models.User) error
	updateFn                  func(context.Context, *models.User) error
	deleteFn                  func(context.Context, uint) error
	listFn                    func(context.Context, int, int, uint) ([]models.User, int64, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByActivationToken(ctx context.Context, token string) (*models.User, error) {
	return s.getByActivationTokenFn(ctx, token)
}
func (s *userRepoStub) GetByPasswordResetToken(ctx context.Context, token string) (*models.User, error) {
	return s.getByPasswordResetTokenFn(ctx, token)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int, excludeID uint) ([]models.User, int64, error) {
	return s.listFn(ctx, limit, offset, excludeID)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
		getByEmailFn:              func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByActivationTokenFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByPasswordResetTokenFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:                  func(_ context.Context, _ *models.User) error { return nil },
		updateFn:                  func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:                  func(_ context.Context, _ uint) error { return nil },
		listFn: func(_ context.Context, _, _ int, _ uint) ([]models.User, int64, error) {
			return nil, 0, nil
		},
	}
}

// hoaxRepoStub is a stub for repository.HoaxRepository.
type hoaxRepoStub struct {
	createFn         func(context.Context, *models.Hoax) error
	getByIDAndUserFn func(context.Context, uint, uint) (*models.Hoax, error)
	listFn           func(context.Context, int, int, uint) ([]models.Hoax, int64, error)
	listByUserFn     func(context.Context, uint) ([]models.Hoax, error)
	deleteFn         func(context.Context, uint) error
	deleteByUserFn   func(context.Context, uint) error
}

func (s *hoaxRepoStub) Create(ctx context.Context, hoax *models.Hoax) error {
	return s.createFn(ctx, hoax)
}
func (s *hoaxRepoStub) GetByIDAndUser(ctx context.Context, id, userID uint) (*models.Hoax, error) {
	return s.getByIDAndUserFn(ctx, id, userID)
}
func (s *hoaxRepoStub) List(ctx context.Context, limit, offset int, userID uint) ([]models.Hoax, int64, error) {
	return s.listFn(ctx, limit, offset, userID)
}
func (s *hoaxRepoStub) ListByUser(ctx context.Context, userID uint) ([]models.Hoax, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *hoaxRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *hoaxRepoStub) DeleteByUser(ctx context.Context, userID uint) error {
	return s.deleteByUserFn(ctx, userID)
}

func noopHoaxRepo() *hoaxRepoStub {
	return &hoaxRepoStub{
		createFn: func(_ context.Context, _ *models.Hoax) error { return nil },
		getByIDAndUserFn: func(_ context.Context, _, _ uint) (*models.Hoax, error) {
			return nil, gorm.ErrRecordNotFound
		},
		listFn: func(_ context.Context, _, _ int, _ uint) ([]models.Hoax, int64, error) {
			return nil, 0, nil
		},
		listByUserFn:   func(_ context.Context, _ uint) ([]models.Hoax, error) { return nil, nil },
		deleteFn:       func(_ context.Context, _ uint) error { return nil },
		deleteByUserFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// assertAppErrorCode asserts that err is an AppError with the given code.
func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
