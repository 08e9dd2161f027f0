package validator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/raflytch/resume-analyzer/internal/domain"
)

const (
	KB int64 = 1024
	MB int64 = 1024 * KB
	GB int64 = 1024 * MB
)

const (
	MaxSize5MB  int64 = 5 * MB
	MaxSize10MB int64 = 10 * MB
)

type Status string

const (
	StatusNoOp     Status = "noop"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Outcome is the result of validating one intake. A NoOp outcome means the
// picker was cancelled and carries neither a file nor a reason.
type Outcome struct {
	Status Status
	File   *domain.SelectedFile
	Reason string
}

func (o Outcome) Accepted() bool {
	return o.Status == StatusAccepted
}

func (o Outcome) Rejected() bool {
	return o.Status == StatusRejected
}

type FileValidator struct {
	maxSize      int64
	allowedTypes []string
	enforceType  bool
}

type FileValidatorOption func(*FileValidator)

func NewFileValidator(opts ...FileValidatorOption) *FileValidator {
	v := &FileValidator{
		maxSize:      MaxSize10MB,
		allowedTypes: []string{".pdf", ".docx"},
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

func WithMaxSize(size int64) FileValidatorOption {
	return func(v *FileValidator) {
		if size > 0 {
			v.maxSize = size
		}
	}
}

func WithAllowedTypes(types []string) FileValidatorOption {
	return func(v *FileValidator) {
		v.allowedTypes = make([]string, 0, len(types))
		seen := make(map[string]bool, len(types))
		for _, t := range types {
			ext := strings.ToLower(strings.TrimSpace(t))
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			if seen[ext] {
				continue
			}
			seen[ext] = true
			v.allowedTypes = append(v.allowedTypes, ext)
		}
	}
}

func WithDocumentTypes() FileValidatorOption {
	return WithAllowedTypes([]string{".pdf", ".docx"})
}

// WithTypeEnforcement makes Validate reject extensions outside the allowed
// list. Without it the list is only published to the picker through Accept.
func WithTypeEnforcement(enforce bool) FileValidatorOption {
	return func(v *FileValidator) {
		v.enforceType = enforce
	}
}

func (v *FileValidator) Validate(file *domain.SelectedFile) Outcome {
	if file == nil {
		return Outcome{Status: StatusNoOp}
	}

	if strings.TrimSpace(file.Name) == "" {
		return Outcome{Status: StatusRejected, Reason: "file name is required"}
	}

	if err := v.ValidateSize(file); err != nil {
		return Outcome{Status: StatusRejected, Reason: err.Error()}
	}

	if v.enforceType {
		if err := v.ValidateType(file); err != nil {
			return Outcome{Status: StatusRejected, Reason: err.Error()}
		}
	}

	return Outcome{Status: StatusAccepted, File: file}
}

func (v *FileValidator) ValidateSize(file *domain.SelectedFile) error {
	if file.Size > v.maxSize {
		return fmt.Errorf("File size exceeds %s. Please upload a smaller file.", v.formatSize(v.maxSize))
	}
	return nil
}

func (v *FileValidator) ValidateType(file *domain.SelectedFile) error {
	if len(v.allowedTypes) == 0 {
		return nil
	}

	ext := strings.ToLower(filepath.Ext(file.Name))
	for _, allowed := range v.allowedTypes {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("file type %s is not allowed. Allowed types: %s", ext, v.getAllowedTypesString())
}

func (v *FileValidator) GetMaxSize() int64 {
	return v.maxSize
}

func (v *FileValidator) EnforcesType() bool {
	return v.enforceType
}

// Accept returns the picker filter, e.g. ".pdf,.docx".
func (v *FileValidator) Accept() string {
	return strings.Join(v.allowedTypes, ",")
}

func (v *FileValidator) MaxSizeLabel() string {
	return v.formatSize(v.maxSize)
}

func (v *FileValidator) formatSize(size int64) string {
	if size >= GB {
		if size%GB == 0 {
			return fmt.Sprintf("%dGB", size/GB)
		}
		return fmt.Sprintf("%.2fGB", float64(size)/float64(GB))
	}
	if size >= MB {
		if size%MB == 0 {
			return fmt.Sprintf("%dMB", size/MB)
		}
		return fmt.Sprintf("%.1fMB", float64(size)/float64(MB))
	}
	if size >= KB {
		return fmt.Sprintf("%.0fKB", float64(size)/float64(KB))
	}
	return fmt.Sprintf("%d bytes", size)
}

func (v *FileValidator) getAllowedTypesString() string {
	types := make([]string, 0, len(v.allowedTypes))
	for _, t := range v.allowedTypes {
		types = append(types, strings.TrimPrefix(t, "."))
	}
	return strings.Join(types, ", ")
}

func ResumeValidator() *FileValidator {
	return NewFileValidator(
		WithMaxSize(MaxSize10MB),
		WithDocumentTypes(),
	)
}
