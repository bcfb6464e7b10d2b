package repository

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

func TestHoaxRepositoryGetByIDAndUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHoaxRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	other := createTestUser(t, db, "other")

	hoax := &models.Hoax{Content: "ten characters at least", Timestamp: time.Now().UnixMilli(), UserID: owner.ID}
	require.NoError(t, repo.Create(ctx, hoax))

	got, err := repo.GetByIDAndUser(ctx, hoax.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, hoax.ID, got.ID)

	_, err = repo.GetByIDAndUser(ctx, hoax.ID, other.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound),
		"ownership scoping must behave like absence")
}

func TestHoaxRepositoryListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHoaxRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &models.Hoax{
			Content: "hoax number content", Timestamp: time.Now().UnixMilli(), UserID: owner.ID,
		}))
	}

	hoaxes, total, err := repo.List(ctx, 10, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, hoaxes, 3)
	assert.Greater(t, hoaxes[0].ID, hoaxes[1].ID)
	assert.Greater(t, hoaxes[1].ID, hoaxes[2].ID)
}

func TestHoaxRepositoryListScopedToUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHoaxRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	require.NoError(t, repo.Create(ctx, &models.Hoax{Content: "alice writes things", Timestamp: 1, UserID: alice.ID}))
	require.NoError(t, repo.Create(ctx, &models.Hoax{Content: "bob writes things too", Timestamp: 2, UserID: bob.ID}))

	hoaxes, total, err := repo.List(ctx, 10, 0, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, hoaxes, 1)
	assert.Equal(t, alice.ID, hoaxes[0].UserID)
}

func TestHoaxRepositoryListPreloadsAttachment(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHoaxRepository(db)
	attachments := NewAttachmentRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	hoax := &models.Hoax{Content: "hoax with attachment", Timestamp: 1, UserID: owner.ID}
	require.NoError(t, repo.Create(ctx, hoax))

	attachment := &models.Attachment{Filename: "blob-key", UploadDate: time.Now()}
	require.NoError(t, attachments.Create(ctx, attachment))
	claimed, err := attachments.BindToHoax(ctx, attachment.ID, hoax.ID)
	require.NoError(t, err)
	require.True(t, claimed)

	hoaxes, _, err := repo.List(ctx, 10, 0, 0)
	require.NoError(t, err)
	require.Len(t, hoaxes, 1)
	require.NotNil(t, hoaxes[0].Attachment)
	assert.Equal(t, "blob-key", hoaxes[0].Attachment.Filename)
	assert.Equal(t, owner.Username, hoaxes[0].User.Username)
}

func TestHoaxRepositoryDeleteByUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHoaxRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	require.NoError(t, repo.Create(ctx, &models.Hoax{Content: "alice hoax one", Timestamp: 1, UserID: alice.ID}))
	require.NoError(t, repo.Create(ctx, &models.Hoax{Content: "alice hoax two", Timestamp: 2, UserID: alice.ID}))
	require.NoError(t, repo.Create(ctx, &models.Hoax{Content: "bob keeps his", Timestamp: 3, UserID: bob.ID}))

	require.NoError(t, repo.DeleteByUser(ctx, alice.ID))

	var remaining []models.Hoax
	db.Find(&remaining)
	require.Len(t, remaining, 1)
	assert.Equal(t, bob.ID, remaining[0].UserID)
}
