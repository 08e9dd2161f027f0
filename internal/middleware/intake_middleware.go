package middleware

import (
	"github.com/raflytch/resume-analyzer/internal/domain"
	"github.com/raflytch/resume-analyzer/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RequireIntakeEnabled rejects requests that would start or replace an upload
// while the session is submitting. Must run after SessionMiddleware.Resolve.
func RequireIntakeEnabled() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := GetSessionFromContext(c)
		if session == nil {
			return response.NotFound(c, "session not found")
		}

		if session.Busy() {
			return response.Conflict(c, domain.ErrIntakeDisabled.Error())
		}

		return c.Next()
	}
}
