package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/raflytch/resume-analyzer/internal/domain"
	"github.com/raflytch/resume-analyzer/pkg/validator"

	"github.com/google/uuid"
)

const (
	DefaultNotificationTTL = 5 * time.Second
	persistTimeout         = 5 * time.Second
)

type SessionDeps struct {
	Validator *validator.FileValidator
	Submitter domain.Submitter
	Results   domain.ResultBridge
}

type SessionOption func(*Session)

// WithAutoSubmit controls whether an accepted selection starts the upload
// right away. When disabled the file stays staged until Submit is called.
func WithAutoSubmit(enabled bool) SessionOption {
	return func(s *Session) {
		s.autoSubmit = enabled
	}
}

// WithNotificationTTL sets how long a notification stays visible. Zero keeps
// notifications until they are replaced or cleared.
func WithNotificationTTL(ttl time.Duration) SessionOption {
	return func(s *Session) {
		s.notificationTTL = ttl
	}
}

func WithClock(clock Clock) SessionOption {
	return func(s *Session) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func WithOnSuccess(fn func(*domain.AnalysisResult)) SessionOption {
	return func(s *Session) {
		s.onSuccess = fn
	}
}

// Session is the submission state machine for one visit of the intake view.
// At most one upload is in flight per session; selections made while it runs
// are rejected with domain.ErrIntakeDisabled.
type Session struct {
	id              uuid.UUID
	validator       *validator.FileValidator
	submitter       domain.Submitter
	results         domain.ResultBridge
	clock           Clock
	autoSubmit      bool
	notificationTTL time.Duration
	onSuccess       func(*domain.AnalysisResult)

	baseCtx  context.Context
	closeCtx context.CancelFunc

	mu           sync.Mutex
	phase        domain.Phase
	staged       *domain.SelectedFile
	notification *domain.Notification
	notifySeq    uint64
	notifyTimer  Timer
	handoff      *domain.AnalysisResult
	nextView     string
	cycle        uint64
	cancel       context.CancelFunc
	done         chan struct{}
	closed       bool
	updatedAt    time.Time
	lastActive   time.Time
}

func NewSession(ctx context.Context, id uuid.UUID, deps SessionDeps, opts ...SessionOption) *Session {
	s := &Session{
		id:              id,
		validator:       deps.Validator,
		submitter:       deps.Submitter,
		results:         deps.Results,
		clock:           SystemClock(),
		autoSubmit:      true,
		notificationTTL: DefaultNotificationTTL,
		phase:           domain.PhaseIdle,
	}
	if s.validator == nil {
		s.validator = validator.ResumeValidator()
	}

	for _, opt := range opts {
		opt(s)
	}

	s.baseCtx, s.closeCtx = context.WithCancel(ctx)
	now := s.clock.Now()
	s.updatedAt = now
	s.lastActive = now

	return s
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

// Select handles a new intake. A nil file means the picker was cancelled and
// resets the session.
func (s *Session) Select(file *domain.SelectedFile) (validator.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return validator.Outcome{}, domain.ErrSessionClosed
	}
	if s.phase == domain.PhaseSubmitting {
		return validator.Outcome{}, domain.ErrIntakeDisabled
	}
	s.touchLocked()

	outcome := s.validator.Validate(file)
	switch outcome.Status {
	case validator.StatusNoOp:
		s.resetLocked()
	case validator.StatusRejected:
		s.staged = nil
		s.nextView = ""
		s.setPhaseLocked(domain.PhaseIdle)
		s.showNotificationLocked(domain.NotificationError, outcome.Reason)
	case validator.StatusAccepted:
		s.staged = outcome.File
		s.nextView = ""
		s.clearNotificationLocked()
		s.setPhaseLocked(domain.PhaseFileStaged)
		if s.autoSubmit {
			s.startLocked()
		}
	}

	return outcome, nil
}

// Submit starts the upload of the staged file. Only needed when auto-submit
// is off, or to retry a failed upload without re-selecting.
func (s *Session) Submit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrSessionClosed
	}
	if s.phase == domain.PhaseSubmitting {
		return domain.ErrIntakeDisabled
	}
	if s.staged == nil {
		return domain.ErrNothingStaged
	}

	s.touchLocked()
	s.clearNotificationLocked()
	s.startLocked()
	return nil
}

// Remove clears the staged file and notification. An upload in flight is
// aborted and its late result is ignored.
func (s *Session) Remove() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.touchLocked()
	s.abortLocked()
	s.resetLocked()
}

// Cancel aborts the upload in flight and keeps the file staged for a retry.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrSessionClosed
	}
	if s.phase != domain.PhaseSubmitting {
		return domain.ErrNotSubmitting
	}

	s.touchLocked()
	s.abortLocked()
	s.setPhaseLocked(domain.PhaseFileStaged)
	return nil
}

func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.abortLocked()
	s.resetLocked()
	s.mu.Unlock()

	s.closeCtx()
}

// Wait blocks until the current submission cycle settles or ctx is done.
func (s *Session) Wait(ctx context.Context) (domain.SubmissionState, error) {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return s.Snapshot(), ctx.Err()
		}
	}
	return s.Snapshot(), nil
}

func (s *Session) Snapshot() domain.SubmissionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := domain.SubmissionState{
		SessionID:     s.id.String(),
		Phase:         s.phase,
		StagedFile:    s.staged.Staged(),
		IntakeEnabled: !s.closed && s.phase != domain.PhaseSubmitting,
		NextView:      s.nextView,
		UpdatedAt:     s.updatedAt,
	}
	if s.notification != nil {
		n := *s.notification
		state.Notification = &n
	}
	return state
}

// Handoff returns the result of the last successful cycle, the in-memory
// counterpart of the persisted slot.
func (s *Session) Handoff() *domain.AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handoff
}

func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase == domain.PhaseSubmitting
}

func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) startLocked() {
	s.cycle++
	cycle := s.cycle

	ctx, cancel := context.WithCancel(s.baseCtx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	s.handoff = nil
	s.setPhaseLocked(domain.PhaseSubmitting)

	go s.run(ctx, cancel, cycle, s.staged, done)
}

func (s *Session) run(ctx context.Context, cancel context.CancelFunc, cycle uint64, file *domain.SelectedFile, done chan struct{}) {
	defer close(done)
	defer cancel()

	result, err := s.submitter.Submit(ctx, file)

	s.mu.Lock()
	if !s.currentLocked(cycle) {
		s.mu.Unlock()
		log.Printf("session %s: discarding outcome of aborted submission", s.id)
		return
	}

	if err != nil {
		s.cancel = nil
		log.Printf("session %s: analysis of %q failed: %v", s.id, file.Name, err)
		s.setPhaseLocked(domain.PhaseFailed)
		s.showNotificationLocked(domain.NotificationError, domain.MessageAnalysisFailed)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	// Persist runs unlocked. An abort meanwhile cancels ctx and is caught below.
	if s.results != nil {
		persistCtx, persistCancel := context.WithTimeout(ctx, persistTimeout)
		if err := s.results.Persist(persistCtx, result); err != nil {
			log.Printf("warning: session %s: failed to persist analysis result: %v", s.id, err)
		}
		persistCancel()
	}

	s.mu.Lock()
	if !s.currentLocked(cycle) {
		s.mu.Unlock()
		log.Printf("session %s: discarding outcome of aborted submission", s.id)
		return
	}
	s.cancel = nil
	s.handoff = result
	s.nextView = domain.ViewResults
	s.setPhaseLocked(domain.PhaseSucceeded)
	s.showNotificationLocked(domain.NotificationSuccess, domain.MessageAnalysisSucceeded)
	onSuccess := s.onSuccess
	s.mu.Unlock()

	if onSuccess != nil {
		onSuccess(result)
	}
}

func (s *Session) currentLocked(cycle uint64) bool {
	return cycle == s.cycle && s.phase == domain.PhaseSubmitting
}

func (s *Session) abortLocked() {
	if s.phase != domain.PhaseSubmitting {
		return
	}
	s.cycle++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) resetLocked() {
	s.staged = nil
	s.nextView = ""
	s.clearNotificationLocked()
	s.setPhaseLocked(domain.PhaseIdle)
}

func (s *Session) setPhaseLocked(phase domain.Phase) {
	s.phase = phase
	s.updatedAt = s.clock.Now()
}

func (s *Session) touchLocked() {
	s.lastActive = s.clock.Now()
}

// showNotificationLocked replaces the current notification and arms a timer
// that only clears this one. A timer armed for an older notification finds a
// newer sequence number and leaves the notification alone.
func (s *Session) showNotificationLocked(kind domain.NotificationKind, message string) {
	s.stopNotificationTimerLocked()
	s.notifySeq++
	seq := s.notifySeq

	now := s.clock.Now()
	n := &domain.Notification{
		Message: message,
		Kind:    kind,
		ShownAt: now,
	}
	if s.notificationTTL > 0 {
		expiresAt := now.Add(s.notificationTTL)
		n.ExpiresAt = &expiresAt
		s.notifyTimer = s.clock.AfterFunc(s.notificationTTL, func() {
			s.expireNotification(seq)
		})
	}
	s.notification = n
	s.updatedAt = now
}

func (s *Session) expireNotification(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.notifySeq {
		return
	}
	s.notifyTimer = nil
	if s.notification != nil {
		s.notification = nil
		s.updatedAt = s.clock.Now()
	}
}

func (s *Session) clearNotificationLocked() {
	s.stopNotificationTimerLocked()
	s.notifySeq++
	if s.notification != nil {
		s.notification = nil
		s.updatedAt = s.clock.Now()
	}
}

func (s *Session) stopNotificationTimerLocked() {
	if s.notifyTimer != nil {
		s.notifyTimer.Stop()
		s.notifyTimer = nil
	}
}
