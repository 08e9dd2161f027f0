package routes

import (
	"github.com/raflytch/resume-analyzer/internal/handler"
	"github.com/raflytch/resume-analyzer/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Intake  *handler.IntakeHandler
	Session *handler.SessionHandler
	Result  *handler.ResultHandler
}

type Middlewares struct {
	Session *middleware.SessionMiddleware
}

func Setup(app *fiber.App, handlers Handlers, middlewares Middlewares) {
	app.Get("/health", healthCheck)

	api := app.Group("/api/v1")

	api.Get("/intake", handlers.Intake.GetRules)
	setupSessionRoutes(api, handlers.Session, middlewares.Session)
	setupResultRoutes(api, handlers.Result)
}

func healthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": "server is running",
	})
}
