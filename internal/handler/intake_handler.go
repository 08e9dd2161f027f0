package handler

import (
	"github.com/raflytch/resume-analyzer/pkg/response"
	"github.com/raflytch/resume-analyzer/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

type IntakeRules struct {
	Accept       string `json:"accept"`
	MaxFileSize  int64  `json:"max_file_size"`
	MaxSizeLabel string `json:"max_size_label"`
	EnforceType  bool   `json:"enforce_type"`
	AutoSubmit   bool   `json:"auto_submit"`
}

type IntakeHandler struct {
	rules IntakeRules
}

func NewIntakeHandler(fileValidator *validator.FileValidator, autoSubmit bool) *IntakeHandler {
	return &IntakeHandler{
		rules: IntakeRules{
			Accept:       fileValidator.Accept(),
			MaxFileSize:  fileValidator.GetMaxSize(),
			MaxSizeLabel: fileValidator.MaxSizeLabel(),
			EnforceType:  fileValidator.EnforcesType(),
			AutoSubmit:   autoSubmit,
		},
	}
}

func (h *IntakeHandler) GetRules(c *fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, "intake rules retrieved", h.rules)
}
