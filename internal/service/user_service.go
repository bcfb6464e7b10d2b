package service

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"

	"hoaxify/internal/blob"
	"hoaxify/internal/email"
	"hoaxify/internal/middleware"
	"hoaxify/internal/models"
	"hoaxify/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const activationTokenBytes = 16

// allowedProfileImageTypes is the sniffed-type whitelist for profile images.
var allowedProfileImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
}

// UserService handles account lifecycle: registration, activation,
// authentication, profile updates and password reset.
type UserService struct {
	db            *gorm.DB
	users         repository.UserRepository
	tokens        *TokenService
	blobs         *blob.Store
	mail          email.Sender
	maxImageBytes int64
	logger        *slog.Logger
}

// NewUserService returns a UserService over the given collaborators.
func NewUserService(
	db *gorm.DB,
	users repository.UserRepository,
	tokens *TokenService,
	blobs *blob.Store,
	mail email.Sender,
	maxImageBytes int64,
) *UserService {
	return &UserService{
		db:            db,
		users:         users,
		tokens:        tokens,
		blobs:         blobs,
		mail:          mail,
		maxImageBytes: maxImageBytes,
		logger:        middleware.Logger,
	}
}

// Register creates an inactive account and sends the activation mail inside
// one transaction: if the mail cannot be handed off, the account insert is
// rolled back and the address stays free to retry.
func (s *UserService) Register(ctx context.Context, username, emailAddr, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	activationToken, err := randomHex(activationTokenBytes)
	if err != nil {
		return models.NewInternalError(err)
	}

	user := &models.User{
		Username:        username,
		Email:           emailAddr,
		Password:        string(hash),
		Inactive:        true,
		ActivationToken: activationToken,
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewUserRepository(tx).Create(ctx, user); err != nil {
			return err
		}
		if err := s.mail.SendAccountActivation(ctx, user.Email, activationToken); err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
}

// Activate flips an account to active by its activation token.
func (s *UserService) Activate(ctx context.Context, token string) error {
	user, err := s.users.GetByActivationToken(ctx, token)
	if err != nil {
		return err
	}
	if user == nil {
		return models.NewValidationError("This account is either active or the token is invalid")
	}
	user.Inactive = false
	user.ActivationToken = ""
	return s.users.Update(ctx, user)
}

// Authenticate verifies credentials and returns the user. Wrong email and
// wrong password produce the same error; an inactive account is rejected
// even with correct credentials.
func (s *UserService) Authenticate(ctx context.Context, emailAddr, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthenticatedError()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthenticatedError()
	}
	if user.Inactive {
		return nil, models.NewForbiddenError("Account is inactive")
	}
	return user, nil
}

// GetUser returns a single user by id.
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetUsers returns a page of active users, excluding the authenticated
// caller so users do not see themselves in the listing.
func (s *UserService) GetUsers(ctx context.Context, page, size int, excludeID uint) (*Page, error) {
	page, size = normalizePaging(page, size)
	users, total, err := s.users.List(ctx, size, page*size, excludeID)
	if err != nil {
		return nil, err
	}
	return &Page{
		Content:    users,
		Page:       page,
		Size:       size,
		TotalPages: totalPages(total, size),
	}, nil
}

// UpdateUser changes the username and, when imageBase64 is non-empty,
// replaces the profile image. Images are size capped and sniffed for type
// before any write; the previous blob is deleted best effort once the new
// one is persisted.
func (s *UserService) UpdateUser(ctx context.Context, id uint, username, imageBase64 string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Username = username

	oldImage := ""
	if imageBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(imageBase64)
		if err != nil {
			return nil, models.NewValidationError("Profile image is not valid base64")
		}
		if int64(len(data)) > s.maxImageBytes {
			return nil, models.NewPayloadTooLargeError(s.maxImageBytes)
		}
		if !allowedProfileImageTypes[http.DetectContentType(data)] {
			return nil, models.NewUnsupportedMediaTypeError("Only JPEG or PNG files are allowed")
		}

		key, err := s.blobs.Save(blob.ClassProfile, data)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		oldImage = user.Image
		user.Image = key
	}

	if err := s.users.Update(ctx, user); err != nil {
		if user.Image != oldImage && user.Image != "" {
			if delErr := s.blobs.Delete(blob.ClassProfile, user.Image); delErr != nil {
				s.logger.ErrorContext(ctx, "profile blob rollback failed",
					slog.String("key", user.Image), slog.String("error", delErr.Error()))
			}
		}
		return nil, err
	}

	if oldImage != "" {
		if err := s.blobs.Delete(blob.ClassProfile, oldImage); err != nil {
			middleware.BlobDeleteFailures.WithLabelValues(string(blob.ClassProfile)).Inc()
			s.logger.ErrorContext(ctx, "stale profile blob delete failed",
				slog.String("key", oldImage), slog.String("error", err.Error()))
		}
	}
	return user, nil
}

// PasswordResetRequest issues a reset token for the address and mails it.
func (s *UserService) PasswordResetRequest(ctx context.Context, emailAddr string) error {
	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}
	if user == nil {
		return &models.AppError{Code: "NOT_FOUND", Message: "E-mail not found"}
	}

	resetToken, err := randomHex(activationTokenBytes)
	if err != nil {
		return models.NewInternalError(err)
	}
	user.PasswordResetToken = resetToken
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	return s.mail.SendPasswordReset(ctx, user.Email, resetToken)
}

// UpdatePassword sets a new password via a reset token, activates the
// account if it never was, and revokes every live session so stolen tokens
// die with the old password.
func (s *UserService) UpdatePassword(ctx context.Context, resetToken, password string) error {
	user, err := s.users.GetByPasswordResetToken(ctx, resetToken)
	if err != nil {
		return err
	}
	if user == nil {
		return models.NewForbiddenError("You are not authorized to update your password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	user.Password = string(hash)
	user.PasswordResetToken = ""
	user.ActivationToken = ""
	user.Inactive = false
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	return s.tokens.ClearTokens(ctx, user.ID)
}
