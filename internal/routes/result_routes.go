package routes

import (
	"github.com/raflytch/resume-analyzer/internal/handler"

	"github.com/gofiber/fiber/v2"
)

func setupResultRoutes(router fiber.Router, h *handler.ResultHandler) {
	results := router.Group("/results")

	results.Get("/", h.Get)
	results.Get("/raw", h.GetRaw)
	results.Get("/report", h.DownloadReport)
}
