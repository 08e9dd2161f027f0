package middleware

import (
	"errors"

	"github.com/raflytch/resume-analyzer/internal/domain"
	"github.com/raflytch/resume-analyzer/internal/service"
	"github.com/raflytch/resume-analyzer/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const SessionContextKey = "session"

type SessionMiddleware struct {
	sessions *service.SessionManager
}

func NewSessionMiddleware(sessions *service.SessionManager) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions}
}

// Resolve loads the session named by the :id route parameter into the request
// locals.
func (m *SessionMiddleware) Resolve() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return response.BadRequest(c, "invalid session id")
		}

		session, err := m.sessions.Get(id)
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				return response.NotFound(c, "session not found")
			}
			return response.InternalError(c, err.Error())
		}

		c.Locals(SessionContextKey, session)
		return c.Next()
	}
}

func GetSessionFromContext(c *fiber.Ctx) *service.Session {
	session, ok := c.Locals(SessionContextKey).(*service.Session)
	if !ok {
		return nil
	}
	return session
}
