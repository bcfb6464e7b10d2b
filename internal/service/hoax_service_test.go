package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"hoaxify/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHoaxService(hoaxes *hoaxRepoStub, users *userRepoStub, atts *attachmentRepoStub, t *testing.T) *HoaxService {
	t.Helper()
	attSvc := NewAttachmentService(atts, newTestBlobStore(t), testMaxAttachmentBytes)
	return NewHoaxService(hoaxes, users, attSvc)
}

func TestCreateHoax(t *testing.T) {
	var created *models.Hoax
	hoaxes := noopHoaxRepo()
	hoaxes.createFn = func(_ context.Context, hoax *models.Hoax) error {
		hoax.ID = 1
		created = hoax
		return nil
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newHoaxService(hoaxes, noopUserRepo(), noopAttachmentRepo(), t)
	svc.now = func() time.Time { return now }

	hoax, err := svc.CreateHoax(context.Background(), 42, "a perfectly fine hoax", 0)
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, uint(42), hoax.UserID)
	assert.Equal(t, now.UnixMilli(), hoax.Timestamp)
}

func TestCreateHoaxContentBounds(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"too short", "short", true},
		{"nine chars", "123456789", true},
		{"exactly ten", "1234567890", false},
		{"whitespace padding does not count", "   1234567   ", true},
		{"exactly five thousand", strings.Repeat("a", 5000), false},
		{"over five thousand", strings.Repeat("a", 5001), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newHoaxService(noopHoaxRepo(), noopUserRepo(), noopAttachmentRepo(), t)

			_, err := svc.CreateHoax(context.Background(), 1, tt.content, 0)
			if tt.wantErr {
				assertAppErrorCode(t, err, "VALIDATION_ERROR")
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCreateHoaxBindsAttachment(t *testing.T) {
	var boundAttachment, boundHoax uint
	atts := noopAttachmentRepo()
	atts.bindToHoaxFn = func(_ context.Context, id, hoaxID uint) (bool, error) {
		boundAttachment, boundHoax = id, hoaxID
		return true, nil
	}

	hoaxes := noopHoaxRepo()
	hoaxes.createFn = func(_ context.Context, hoax *models.Hoax) error {
		hoax.ID = 7
		return nil
	}

	svc := newHoaxService(hoaxes, noopUserRepo(), atts, t)

	_, err := svc.CreateHoax(context.Background(), 1, "hoax with an attachment", 3)
	require.NoError(t, err)
	assert.Equal(t, uint(3), boundAttachment)
	assert.Equal(t, uint(7), boundHoax)
}

func TestCreateHoaxSurvivesLostAttachmentClaim(t *testing.T) {
	atts := noopAttachmentRepo()
	atts.bindToHoaxFn = func(_ context.Context, _, _ uint) (bool, error) { return false, nil }

	svc := newHoaxService(noopHoaxRepo(), noopUserRepo(), atts, t)

	hoax, err := svc.CreateHoax(context.Background(), 1, "hoax with a stale attachment id", 3)
	require.NoError(t, err, "a stale attachment id never fails hoax creation")
	require.NotNil(t, hoax)
}

func TestGetHoaxesUnknownUser(t *testing.T) {
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return nil, models.NewNotFoundError("User", id)
	}

	svc := newHoaxService(noopHoaxRepo(), users, noopAttachmentRepo(), t)

	_, err := svc.GetHoaxes(context.Background(), 0, 10, 99)
	assertAppErrorCode(t, err, "NOT_FOUND")
}

func TestGetHoaxesPageEnvelope(t *testing.T) {
	hoaxes := noopHoaxRepo()
	hoaxes.listFn = func(_ context.Context, limit, offset int, _ uint) ([]models.Hoax, int64, error) {
		assert.Equal(t, 10, limit)
		assert.Equal(t, 20, offset)
		return []models.Hoax{{ID: 1}}, 25, nil
	}

	svc := newHoaxService(hoaxes, noopUserRepo(), noopAttachmentRepo(), t)

	page, err := svc.GetHoaxes(context.Background(), 2, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 10, page.Size)
	assert.Equal(t, 3, page.TotalPages)
}
