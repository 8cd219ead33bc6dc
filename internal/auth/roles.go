package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/shop-service/pkg/util"
)

// RequireAdmin ensures the authenticated caller carries the admin flag.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthenticated("Authentication invalid")
		}
		if !identity.IsAdmin {
			return apperrors.NewForbidden("admin required")
		}
		return c.Next()
	}
}
