package server

import (
	"hoaxify/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateHoax handles POST /api/1.0/hoaxes
func (s *Server) CreateHoax(c *fiber.Ctx) error {
	var req struct {
		Content      string `json:"content"`
		AttachmentID uint   `json:"fileAttachment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	hoax, err := s.hoaxService.CreateHoax(c.UserContext(), currentUserID(c), req.Content, req.AttachmentID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(hoax)
}

// GetHoaxes handles GET /api/1.0/hoaxes
func (s *Server) GetHoaxes(c *fiber.Ctx) error {
	page, size := parsePaging(c)

	result, err := s.hoaxService.GetHoaxes(c.UserContext(), page, size, 0)
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// GetUserHoaxes handles GET /api/1.0/users/:id/hoaxes
func (s *Server) GetUserHoaxes(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page, size := parsePaging(c)

	result, err := s.hoaxService.GetHoaxes(c.UserContext(), page, size, userID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// DeleteHoax handles DELETE /api/1.0/hoaxes/:id. Only the owner can delete;
// a hoax that does not exist yields the same response as one owned by
// someone else.
func (s *Server) DeleteHoax(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.cascadeService.DeleteHoax(c.UserContext(), id, currentUserID(c)); err != nil {
		return respondErr(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}
