package domain

import (
	"errors"
	"time"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session is closed")
	ErrIntakeDisabled  = errors.New("a resume is already being analyzed")
	ErrNothingStaged   = errors.New("no file is staged for analysis")
	ErrNotSubmitting   = errors.New("no analysis is running")
)

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseFileStaged Phase = "file_staged"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

const (
	MessageAnalysisSucceeded = "Resume analyzed successfully!"
	MessageAnalysisFailed    = "Failed to analyze resume. Please try again."
)

const ViewResults = "results"

type Notification struct {
	Message   string           `json:"message"`
	Kind      NotificationKind `json:"kind"`
	ShownAt   time.Time        `json:"shown_at"`
	ExpiresAt *time.Time       `json:"expires_at,omitempty"`
}

type StagedFile struct {
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	MediaType string `json:"media_type"`
}

type SubmissionState struct {
	SessionID     string        `json:"session_id"`
	Phase         Phase         `json:"phase"`
	StagedFile    *StagedFile   `json:"staged_file"`
	Notification  *Notification `json:"notification"`
	IntakeEnabled bool          `json:"intake_enabled"`
	NextView      string        `json:"next_view,omitempty"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (s SubmissionState) Settled() bool {
	return s.Phase != PhaseSubmitting
}
