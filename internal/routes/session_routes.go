package routes

import (
	"github.com/raflytch/resume-analyzer/internal/handler"
	"github.com/raflytch/resume-analyzer/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func setupSessionRoutes(router fiber.Router, h *handler.SessionHandler, sessionMiddleware *middleware.SessionMiddleware) {
	sessions := router.Group("/sessions")
	resolve := sessionMiddleware.Resolve()
	intake := middleware.RequireIntakeEnabled()

	sessions.Post("/", h.Create)
	sessions.Get("/:id", resolve, h.Get)
	sessions.Delete("/:id", resolve, h.Close)
	sessions.Post("/:id/file", resolve, intake, h.SelectFile)
	sessions.Delete("/:id/file", resolve, h.RemoveFile)
	sessions.Post("/:id/submit", resolve, intake, h.Submit)
	sessions.Post("/:id/cancel", resolve, h.Cancel)
}
