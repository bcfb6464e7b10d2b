package server

import (
	"hoaxify/internal/models"
	"hoaxify/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Login handles POST /api/1.0/auth
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Email == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Email and password are required"))
	}

	user, err := s.userService.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondErr(c, err)
	}

	token, err := s.tokenService.CreateToken(c.UserContext(), user.ID)
	if err != nil {
		return respondErr(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id":       user.ID,
		"username": user.Username,
		"image":    user.Image,
		"token":    token,
	})
}

// Logout handles POST /api/1.0/logout. It revokes the presented token and
// succeeds even without one; logging out is always safe to repeat.
func (s *Server) Logout(c *fiber.Ctx) error {
	token := bearerToken(c.Get("Authorization"))
	if token != "" {
		if err := s.tokenService.DeleteToken(c.UserContext(), token); err != nil {
			return respondErr(c, err)
		}
	}
	return c.SendStatus(fiber.StatusOK)
}

// PasswordResetRequest handles POST /api/1.0/user/password
func (s *Server) PasswordResetRequest(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	if err := s.userService.PasswordResetRequest(c.UserContext(), req.Email); err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Check your e-mail for resetting your password",
	})
}

// PasswordUpdate handles PUT /api/1.0/user/password
func (s *Server) PasswordUpdate(c *fiber.Ctx) error {
	var req struct {
		PasswordResetToken string `json:"passwordResetToken"`
		Password           string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.PasswordResetToken == "" {
		return respondErr(c, models.NewForbiddenError("You are not authorized to update your password"))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	if err := s.userService.UpdatePassword(c.UserContext(), req.PasswordResetToken, req.Password); err != nil {
		return respondErr(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}
