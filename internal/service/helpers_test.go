package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/raflytch/resume-analyzer/internal/domain"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu         sync.Mutex
	now        time.Time
	timers     []*fakeTimer
	ignoreStop bool
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward and runs due timers on the calling goroutine.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	var due []*fakeTimer
	for _, t := range c.timers {
		if t.fired || (t.stopped && !c.ignoreStop) {
			continue
		}
		if !t.at.After(now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, t := range due {
		t.fn()
	}
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

type stubSubmitter struct {
	mu          sync.Mutex
	calls       int
	inFlight    int
	maxInFlight int
	block       chan struct{}
	started     chan struct{}
	result      *domain.AnalysisResult
	err         error
	lastErr     error
}

func newStubSubmitter(result *domain.AnalysisResult, err error) *stubSubmitter {
	return &stubSubmitter{
		result:  result,
		err:     err,
		started: make(chan struct{}, 16),
	}
}

func (s *stubSubmitter) Submit(ctx context.Context, _ *domain.SelectedFile) (*domain.AnalysisResult, error) {
	s.mu.Lock()
	s.calls++
	s.inFlight++
	if s.inFlight > s.maxInFlight {
		s.maxInFlight = s.inFlight
	}
	block := s.block
	s.mu.Unlock()

	s.started <- struct{}{}

	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			s.mu.Lock()
			s.lastErr = ctx.Err()
			s.mu.Unlock()
			return nil, ctx.Err()
		}
	}
	return s.result, s.err
}

func (s *stubSubmitter) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type memoryStore struct {
	mu      sync.Mutex
	values  map[string]*domain.AnalysisResult
	saveErr error
	saves   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: make(map[string]*domain.AnalysisResult)}
}

func (m *memoryStore) Save(_ context.Context, key string, result *domain.AnalysisResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.values[key] = result
	return nil
}

func (m *memoryStore) Load(_ context.Context, key string) (*domain.AnalysisResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result, ok := m.values[key]
	if !ok {
		return nil, domain.ErrNoResult
	}
	return result, nil
}

func mustResult(t *testing.T, doc string) *domain.AnalysisResult {
	t.Helper()
	result, err := domain.NewAnalysisResult([]byte(doc))
	require.NoError(t, err)
	return result
}

func resumeOfSize(size int64) *domain.SelectedFile {
	file := domain.NewSelectedFileFromBytes("resume.pdf", "application/pdf", []byte("%PDF-1.4"))
	file.Size = size
	return file
}

func waitSettled(t *testing.T, s *Session) domain.SubmissionState {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	state, err := s.Wait(ctx)
	require.NoError(t, err)
	return state
}

func waitStarted(t *testing.T, sub *stubSubmitter) {
	t.Helper()
	select {
	case <-sub.started:
	case <-time.After(5 * time.Second):
		t.Fatal("submission did not start")
	}
}
