// Package middleware provides authentication, logging, rate limiting and
// observability middleware for the application.
package middleware

import (
	"context"
	"strings"

	"hoaxify/internal/models"

	"github.com/gofiber/fiber/v2"
)

// TokenVerifier resolves an opaque bearer token to the owning user id.
// Implemented by service.TokenService.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (uint, error)
}

// TokenAuthentication attempts to authenticate every request from the
// Authorization header. Verification failure is recovered into anonymous
// request state, never rejected here: each route decides via AuthRequired
// whether authentication is mandatory, and some routes are public.
func TokenAuthentication(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get("Authorization"))
		if token != "" {
			if userID, err := verifier.Verify(c.UserContext(), token); err == nil {
				c.Locals("userID", userID)
				ctx := context.WithValue(c.UserContext(), UserIDKey, userID)
				c.SetUserContext(ctx)
			}
		}
		return c.Next()
	}
}

// AuthRequired rejects requests that did not authenticate. Must be placed
// after TokenAuthentication. The response is identical for missing, invalid
// and expired tokens.
func AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals("userID") == nil {
			err := models.NewUnauthenticatedError()
			return models.RespondWithError(c, models.HTTPStatus(err), err)
		}
		return c.Next()
	}
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
