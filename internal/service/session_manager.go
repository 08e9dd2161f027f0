package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/raflytch/resume-analyzer/internal/domain"

	"github.com/google/uuid"
)

type SessionFactory func(ctx context.Context, id uuid.UUID) *Session

// SessionManager keeps one Session per visit of the intake view and evicts
// sessions that have been idle longer than idleTTL. Busy sessions are never
// evicted.
type SessionManager struct {
	factory       SessionFactory
	clock         Clock
	idleTTL       time.Duration
	sweepInterval time.Duration

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewSessionManager(factory SessionFactory, idleTTL, sweepInterval time.Duration, clock Clock) *SessionManager {
	if clock == nil {
		clock = SystemClock()
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &SessionManager{
		factory:       factory,
		clock:         clock,
		idleTTL:       idleTTL,
		sweepInterval: sweepInterval,
		sessions:      make(map[uuid.UUID]*Session),
		ctx:           ctx,
		cancel:        cancel,
		stopChan:      make(chan struct{}),
	}
}

func (m *SessionManager) Create() *Session {
	id := uuid.New()
	session := m.factory(m.ctx, id)

	m.mu.Lock()
	m.sessions[id] = session
	m.mu.Unlock()

	return session
}

func (m *SessionManager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	session, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (m *SessionManager) Close(id uuid.UUID) error {
	m.mu.Lock()
	session, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return domain.ErrSessionNotFound
	}
	session.Close()
	return nil
}

func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep evicts idle sessions and returns how many were removed.
func (m *SessionManager) Sweep() int {
	now := m.clock.Now()
	var evicted []*Session

	m.mu.Lock()
	for id, session := range m.sessions {
		if session.Busy() {
			continue
		}
		if now.Sub(session.LastActive()) > m.idleTTL {
			delete(m.sessions, id)
			evicted = append(evicted, session)
		}
	}
	m.mu.Unlock()

	for _, session := range evicted {
		session.Close()
	}
	return len(evicted)
}

func (m *SessionManager) Start() {
	if m.sweepInterval <= 0 {
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-m.stopChan:
				return
			case <-ticker.C:
				if n := m.Sweep(); n > 0 {
					log.Printf("Evicted %d idle sessions", n)
				}
			}
		}
	}()
}

// Stop halts the janitor and closes every session, aborting uploads in flight.
func (m *SessionManager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
		m.wg.Wait()

		m.mu.Lock()
		sessions := m.sessions
		m.sessions = make(map[uuid.UUID]*Session)
		m.mu.Unlock()

		for _, session := range sessions {
			session.Close()
		}
		m.cancel()
	})
}
