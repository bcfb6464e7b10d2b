package server

import (
	"hoaxify/internal/models"
	"hoaxify/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Signup handles POST /api/1.0/users
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := validation.ValidateUsername(req.Username); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	if err := s.userService.Register(c.UserContext(), req.Username, req.Email, req.Password); err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created",
	})
}

// Activate handles POST /api/1.0/users/token/:token
func (s *Server) Activate(c *fiber.Ctx) error {
	if err := s.userService.Activate(c.UserContext(), c.Params("token")); err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Account is activated",
	})
}

// GetUsers handles GET /api/1.0/users
func (s *Server) GetUsers(c *fiber.Ctx) error {
	page, size := parsePaging(c)

	// The authenticated caller, if any, is excluded from the listing.
	result, err := s.userService.GetUsers(c.UserContext(), page, size, currentUserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// GetUser handles GET /api/1.0/users/:id
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUser(c.UserContext(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// UpdateUser handles PUT /api/1.0/users/:id. Users can only update their
// own account.
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if id != currentUserID(c) {
		return respondErr(c, models.NewForbiddenError("You are not authorized to update this user"))
	}

	var req struct {
		Username string `json:"username"`
		Image    string `json:"image"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := validation.ValidateUsername(req.Username); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	user, err := s.userService.UpdateUser(c.UserContext(), id, req.Username, req.Image)
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// DeleteUser handles DELETE /api/1.0/users/:id. Users can only delete their
// own account; the delete cascades over tokens, hoaxes, attachments and the
// profile image.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if id != currentUserID(c) {
		return respondErr(c, models.NewForbiddenError("You are not authorized to delete this user"))
	}

	if err := s.cascadeService.DeleteUser(c.UserContext(), id); err != nil {
		return respondErr(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}
