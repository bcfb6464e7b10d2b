package server

import (
	"io"
	"os"

	"hoaxify/internal/blob"
	"hoaxify/internal/models"

	"github.com/gofiber/fiber/v2"
)

// UploadAttachment handles POST /api/1.0/hoaxes/attachments. The upload is
// stored unbound; the client passes the returned id when creating the hoax.
func (s *Server) UploadAttachment(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("File is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondErr(c, models.NewInternalError(err))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return respondErr(c, models.NewInternalError(err))
	}

	attachment, err := s.attachmentService.SaveAttachment(c.UserContext(), data)
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(attachment)
}

// ServeProfileImage handles GET /images/:key
func (s *Server) ServeProfileImage(c *fiber.Ctx) error {
	return s.serveBlob(c, blob.ClassProfile)
}

// ServeAttachment handles GET /attachments/:key
func (s *Server) ServeAttachment(c *fiber.Ctx) error {
	return s.serveBlob(c, blob.ClassAttachment)
}

func (s *Server) serveBlob(c *fiber.Ctx, class blob.Class) error {
	data, err := s.blobs.Read(class, c.Params("key"))
	if err != nil {
		if os.IsNotExist(err) {
			return respondErr(c, models.NewNotFoundError("File", c.Params("key")))
		}
		return respondErr(c, models.NewInternalError(err))
	}
	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000, immutable")
	return c.Send(data)
}
