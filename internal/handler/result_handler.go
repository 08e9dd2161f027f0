package handler

import (
	"errors"

	"github.com/raflytch/resume-analyzer/internal/domain"
	"github.com/raflytch/resume-analyzer/internal/presenter"
	"github.com/raflytch/resume-analyzer/internal/service"
	"github.com/raflytch/resume-analyzer/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var errInvalidSessionID = errors.New("invalid session id")

type ResultResponse struct {
	Source domain.ResultSource `json:"source"`
	View   presenter.View      `json:"view"`
	Chart  []presenter.Skill   `json:"chart"`
}

type ResultHandler struct {
	sessions *service.SessionManager
	results  domain.ResultBridge
}

func NewResultHandler(sessions *service.SessionManager, results domain.ResultBridge) *ResultHandler {
	return &ResultHandler{
		sessions: sessions,
		results:  results,
	}
}

func (h *ResultHandler) Get(c *fiber.Ctx) error {
	result, source, err := h.resolve(c)
	if err != nil {
		return resultError(c, err)
	}

	view := presenter.Decode(result)
	return response.Success(c, fiber.StatusOK, "result retrieved", ResultResponse{
		Source: source,
		View:   view,
		Chart:  view.ChartSkills(),
	})
}

func (h *ResultHandler) GetRaw(c *fiber.Ctx) error {
	result, source, err := h.resolve(c)
	if err != nil {
		return resultError(c, err)
	}

	c.Set("X-Result-Source", string(source))
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(result.Raw())
}

func (h *ResultHandler) DownloadReport(c *fiber.Ctx) error {
	result, _, err := h.resolve(c)
	if err != nil {
		return resultError(c, err)
	}

	pdfBytes, err := presenter.RenderPDF(presenter.Decode(result))
	if err != nil {
		return response.InternalError(c, err.Error())
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", "attachment; filename=resume_analysis.pdf")
	return c.Send(pdfBytes)
}

// resolve picks the handoff of the session named in ?session= and falls back
// to the persisted result.
func (h *ResultHandler) resolve(c *fiber.Ctx) (*domain.AnalysisResult, domain.ResultSource, error) {
	var direct *domain.AnalysisResult

	if raw := c.Query("session"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, domain.ResultSourceNone, errInvalidSessionID
		}
		if session, err := h.sessions.Get(id); err == nil {
			direct = session.Handoff()
		}
	}

	result, source, err := h.results.Resolve(c.UserContext(), direct)
	if err != nil {
		return nil, domain.ResultSourceNone, err
	}
	if result == nil {
		return nil, domain.ResultSourceNone, domain.ErrNoResult
	}

	return result, source, nil
}

func resultError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errInvalidSessionID):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrNoResult):
		return response.NotFound(c, err.Error())
	default:
		return response.InternalError(c, err.Error())
	}
}
