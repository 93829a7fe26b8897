// Package session keeps one presenter program per browser session.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/katiamach/terraguard/internal/logger"
	"github.com/katiamach/terraguard/internal/metrics"
	"github.com/katiamach/terraguard/internal/presenter"
	"github.com/sirupsen/logrus"
)

// Factory builds the presenter of a new session.
type Factory func() *presenter.Presenter

type entry struct {
	program  *presenter.Program
	cancel   context.CancelFunc
	lastSeen time.Time
}

// DefaultMaxSessions bounds a store created with a non-positive limit.
const DefaultMaxSessions = 10000

// Store owns the session programs and stops those idle for longer than ttl.
// At most maxSessions sessions live at once; the least recently seen goes first.
type Store struct {
	factory     Factory
	ttl         time.Duration
	maxSessions int
	metrics     *metrics.Metrics

	mu       sync.Mutex
	sessions map[string]*entry
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// NewStore creates a store and starts its eviction loop.
func NewStore(factory Factory, ttl time.Duration, maxSessions int, m *metrics.Metrics) *Store {
	ctx, cancel := context.WithCancel(context.Background())

	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}

	s := &Store{
		factory:     factory,
		ttl:         ttl,
		maxSessions: maxSessions,
		metrics:     m,
		sessions:    make(map[string]*entry),
		now:         time.Now,
		ctx:         ctx,
		cancel:      cancel,
	}

	interval := ttl / 2
	if interval <= 0 || interval > time.Minute {
		interval = time.Minute
	}
	go s.evictLoop(interval)

	return s
}

// Get returns the program of session id, starting a new session under a
// fresh id when id is unknown. The returned id is the one to hand back to
// the client.
func (s *Store) Get(id string) (string, *presenter.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.sessions[id]; ok {
		e.lastSeen = s.now()
		return id, e.program
	}

	for len(s.sessions) >= s.maxSessions {
		s.evictOldest()
	}

	id = uuid.NewString()
	ctx, cancel := context.WithCancel(s.ctx)
	prog := presenter.NewProgram(s.factory())
	go func() {
		_ = prog.Run(ctx)
	}()

	s.sessions[id] = &entry{program: prog, cancel: cancel, lastSeen: s.now()}
	s.metrics.Sessions.Set(float64(len(s.sessions)))
	logger.WithFields(logrus.Fields{"session": id}).Debug("session started")

	return id, prog
}

// Lookup returns the program of a live session without starting one.
func (s *Store) Lookup(id string) (*presenter.Program, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = s.now()

	return e.program, true
}

// Preview is the view a new session starts with.
func (s *Store) Preview() presenter.View {
	return s.factory().View()
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops every session.
func (s *Store) Close() {
	s.once.Do(func() {
		s.cancel()

		s.mu.Lock()
		s.sessions = make(map[string]*entry)
		s.mu.Unlock()

		s.metrics.Sessions.Set(0)
	})
}

func (s *Store) evictLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evict()
		case <-s.ctx.Done():
			return
		}
	}
}

// evictOldest stops the least recently seen session. Callers hold mu.
func (s *Store) evictOldest() {
	var (
		oldestID string
		oldest   *entry
	)
	for id, e := range s.sessions {
		if oldest == nil || e.lastSeen.Before(oldest.lastSeen) {
			oldestID, oldest = id, e
		}
	}
	if oldest == nil {
		return
	}

	oldest.cancel()
	delete(s.sessions, oldestID)
	logger.WithFields(logrus.Fields{"session": oldestID}).Debug("session dropped, store is full")
}

func (s *Store) evict() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			e.cancel()
			delete(s.sessions, id)
			logger.WithFields(logrus.Fields{"session": id}).Debug("session expired")
		}
	}

	s.metrics.Sessions.Set(float64(len(s.sessions)))
}
