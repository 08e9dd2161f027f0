package handler

import (
	"context"
	"errors"
	"time"

	"github.com/raflytch/resume-analyzer/internal/domain"
	"github.com/raflytch/resume-analyzer/internal/middleware"
	"github.com/raflytch/resume-analyzer/internal/service"
	"github.com/raflytch/resume-analyzer/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type SelectionResponse struct {
	Accepted bool                   `json:"accepted"`
	Reason   string                 `json:"reason,omitempty"`
	State    domain.SubmissionState `json:"state"`
}

type SessionHandler struct {
	sessions    *service.SessionManager
	waitTimeout time.Duration
}

func NewSessionHandler(sessions *service.SessionManager, waitTimeout time.Duration) *SessionHandler {
	return &SessionHandler{
		sessions:    sessions,
		waitTimeout: waitTimeout,
	}
}

func (h *SessionHandler) Create(c *fiber.Ctx) error {
	session := h.sessions.Create()
	return response.Success(c, fiber.StatusCreated, "session created", session.Snapshot())
}

// Get returns the session state. With ?wait=true it blocks until the running
// submission settles or the wait timeout elapses.
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	session := middleware.GetSessionFromContext(c)
	if session == nil {
		return response.NotFound(c, "session not found")
	}

	if !c.QueryBool("wait", false) {
		return response.Success(c, fiber.StatusOK, "session retrieved", session.Snapshot())
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.waitTimeout)
	defer cancel()

	state, err := session.Wait(ctx)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return response.InternalError(c, err.Error())
	}

	return response.Success(c, fiber.StatusOK, "session retrieved", state)
}

// SelectFile stages the multipart "file" part. A request without that part is
// a cancelled picker and resets the session.
func (h *SessionHandler) SelectFile(c *fiber.Ctx) error {
	session := middleware.GetSessionFromContext(c)
	if session == nil {
		return response.NotFound(c, "session not found")
	}

	var file *domain.SelectedFile
	header, err := c.FormFile("file")
	switch {
	case err == nil:
		file = domain.NewSelectedFileFromHeader(header)
	case errors.Is(err, fasthttp.ErrMissingFile), errors.Is(err, fasthttp.ErrNoMultipartForm):
	default:
		return response.BadRequest(c, "invalid multipart body")
	}

	outcome, err := session.Select(file)
	if err != nil {
		return sessionError(c, err)
	}

	result := SelectionResponse{
		Accepted: outcome.Accepted(),
		Reason:   outcome.Reason,
		State:    session.Snapshot(),
	}

	if outcome.Rejected() {
		return response.Success(c, fiber.StatusOK, "file rejected", result)
	}
	if outcome.Accepted() {
		return response.Success(c, fiber.StatusAccepted, "file accepted", result)
	}
	return response.Success(c, fiber.StatusOK, "selection cleared", result)
}

func (h *SessionHandler) Submit(c *fiber.Ctx) error {
	session := middleware.GetSessionFromContext(c)
	if session == nil {
		return response.NotFound(c, "session not found")
	}

	if err := session.Submit(); err != nil {
		return sessionError(c, err)
	}

	return response.Success(c, fiber.StatusAccepted, "analysis started", session.Snapshot())
}

func (h *SessionHandler) Cancel(c *fiber.Ctx) error {
	session := middleware.GetSessionFromContext(c)
	if session == nil {
		return response.NotFound(c, "session not found")
	}

	if err := session.Cancel(); err != nil {
		return sessionError(c, err)
	}

	return response.Success(c, fiber.StatusOK, "analysis cancelled", session.Snapshot())
}

func (h *SessionHandler) RemoveFile(c *fiber.Ctx) error {
	session := middleware.GetSessionFromContext(c)
	if session == nil {
		return response.NotFound(c, "session not found")
	}

	session.Remove()
	return response.Success(c, fiber.StatusOK, "file removed", session.Snapshot())
}

func (h *SessionHandler) Close(c *fiber.Ctx) error {
	session := middleware.GetSessionFromContext(c)
	if session == nil {
		return response.NotFound(c, "session not found")
	}

	if err := h.sessions.Close(session.ID()); err != nil {
		return sessionError(c, err)
	}

	return response.Success(c, fiber.StatusOK, "session closed", nil)
}

func sessionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return response.NotFound(c, "session not found")
	case errors.Is(err, domain.ErrSessionClosed):
		return response.Gone(c, err.Error())
	case errors.Is(err, domain.ErrIntakeDisabled), errors.Is(err, domain.ErrNotSubmitting):
		return response.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrNothingStaged):
		return response.BadRequest(c, err.Error())
	default:
		return response.InternalError(c, err.Error())
	}
}
