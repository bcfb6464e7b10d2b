package service

import (
	"context"
	"errors"
	"testing"

	"hoaxify/internal/blob"
	"hoaxify/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type cascadeFixture struct {
	svc        *CascadeService
	users      *userRepoStub
	hoaxes     *hoaxRepoStub
	tokens     *tokenRepoStub
	atts       *attachmentRepoStub
	store      *blob.Store
	operations *[]string
}

func newCascadeFixture(t *testing.T) *cascadeFixture {
	t.Helper()

	operations := &[]string{}
	record := func(op string) { *operations = append(*operations, op) }

	users := noopUserRepo()
	users.deleteFn = func(_ context.Context, _ uint) error {
		record("user row")
		return nil
	}

	hoaxes := noopHoaxRepo()
	hoaxes.deleteByUserFn = func(_ context.Context, _ uint) error {
		record("hoax rows")
		return nil
	}

	tokens := noopTokenRepo()
	tokens.deleteByUserFn = func(_ context.Context, _ uint) error {
		record("tokens")
		return nil
	}

	atts := noopAttachmentRepo()
	atts.deleteFn = func(_ context.Context, _ uint) error {
		record("attachment row")
		return nil
	}

	store, err := blob.NewStore(t.TempDir(), "profile", "attachment")
	require.NoError(t, err)

	svc := NewCascadeService(users, hoaxes, NewTokenService(tokens), NewAttachmentService(atts, store, testMaxAttachmentBytes), store)
	return &cascadeFixture{
		svc:        svc,
		users:      users,
		hoaxes:     hoaxes,
		tokens:     tokens,
		atts:       atts,
		store:      store,
		operations: operations,
	}
}

func TestDeleteUserCascadeOrdering(t *testing.T) {
	f := newCascadeFixture(t)

	profileKey, err := f.store.Save(blob.ClassProfile, []byte("avatar"))
	require.NoError(t, err)

	f.users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Image: profileKey}, nil
	}
	f.hoaxes.listByUserFn = func(_ context.Context, _ uint) ([]models.Hoax, error) {
		return []models.Hoax{{ID: 1}, {ID: 2}}, nil
	}
	f.atts.getByHoaxIDFn = func(_ context.Context, hoaxID uint) (*models.Attachment, error) {
		if hoaxID == 1 {
			return &models.Attachment{ID: 10, Filename: "blob-1", HoaxID: &hoaxID}, nil
		}
		return nil, gorm.ErrRecordNotFound
	}

	require.NoError(t, f.svc.DeleteUser(context.Background(), 42))

	assert.Equal(t, []string{"tokens", "attachment row", "hoax rows", "user row"}, *f.operations)
	assert.False(t, f.store.Exists(blob.ClassProfile, profileKey))
}

func TestDeleteUserMissingUserSucceeds(t *testing.T) {
	f := newCascadeFixture(t)
	f.users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return nil, models.NewNotFoundError("User", id)
	}

	// The desired end state already holds; retried deletes are not errors.
	require.NoError(t, f.svc.DeleteUser(context.Background(), 42))
	assert.Empty(t, *f.operations)
}

func TestDeleteUserMissingProfileBlobStillDeletesRow(t *testing.T) {
	f := newCascadeFixture(t)
	f.users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Image: "vanished"}, nil
	}

	require.NoError(t, f.svc.DeleteUser(context.Background(), 42))
	assert.Contains(t, *f.operations, "user row")
}

func TestDeleteUserAbortsOnRelationalFailure(t *testing.T) {
	f := newCascadeFixture(t)
	f.hoaxes.listByUserFn = func(_ context.Context, _ uint) ([]models.Hoax, error) {
		return nil, errors.New("connection reset")
	}

	err := f.svc.DeleteUser(context.Background(), 42)
	assertAppErrorCode(t, err, "INTERNAL_ERROR")
	assert.NotContains(t, *f.operations, "user row", "the user row must survive a failed cascade for retry")
}

func TestDeleteHoaxRemovesAttachmentFirst(t *testing.T) {
	f := newCascadeFixture(t)

	attachmentKey, err := f.store.Save(blob.ClassAttachment, []byte("file"))
	require.NoError(t, err)

	f.hoaxes.getByIDAndUserFn = func(_ context.Context, id, userID uint) (*models.Hoax, error) {
		if id == 5 && userID == 42 {
			return &models.Hoax{ID: 5, UserID: 42}, nil
		}
		return nil, gorm.ErrRecordNotFound
	}
	f.hoaxes.deleteFn = func(_ context.Context, _ uint) error {
		*f.operations = append(*f.operations, "hoax row")
		return nil
	}
	f.atts.getByHoaxIDFn = func(_ context.Context, hoaxID uint) (*models.Attachment, error) {
		return &models.Attachment{ID: 10, Filename: attachmentKey, HoaxID: &hoaxID}, nil
	}

	require.NoError(t, f.svc.DeleteHoax(context.Background(), 5, 42))

	assert.Equal(t, []string{"attachment row", "hoax row"}, *f.operations)
	assert.False(t, f.store.Exists(blob.ClassAttachment, attachmentKey))
}

func TestDeleteHoaxNotOwnedIsForbidden(t *testing.T) {
	f := newCascadeFixture(t)
	f.hoaxes.getByIDAndUserFn = func(_ context.Context, _, _ uint) (*models.Hoax, error) {
		return nil, gorm.ErrRecordNotFound
	}

	// Someone else's hoax and a nonexistent hoax must be indistinguishable.
	err := f.svc.DeleteHoax(context.Background(), 5, 42)
	assertAppErrorCode(t, err, "FORBIDDEN")

	err = f.svc.DeleteHoax(context.Background(), 99999, 42)
	assertAppErrorCode(t, err, "FORBIDDEN")
}

func TestDeleteHoaxWithoutAttachment(t *testing.T) {
	f := newCascadeFixture(t)
	f.hoaxes.getByIDAndUserFn = func(_ context.Context, id, userID uint) (*models.Hoax, error) {
		return &models.Hoax{ID: id, UserID: userID}, nil
	}

	var deletedHoax uint
	f.hoaxes.deleteFn = func(_ context.Context, id uint) error {
		deletedHoax = id
		return nil
	}

	require.NoError(t, f.svc.DeleteHoax(context.Background(), 5, 42))
	assert.Equal(t, uint(5), deletedHoax)
}
