package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"termcalc/internal/calculator"
)

var ErrCapacity = errors.New("session capacity reached")

// Store holds live sessions keyed by id.
type Store struct {
	ttl    time.Duration
	max    int
	now    func() time.Time
	logger *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore returns a store that expires sessions idle for longer than ttl
// and holds at most max sessions.
func NewStore(ttl time.Duration, max int, opts ...Option) *Store {
	s := &Store{
		ttl:      ttl,
		max:      max,
		now:      time.Now,
		logger:   zap.NewNop(),
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Create() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) >= s.max {
		return nil, ErrCapacity
	}

	now := s.now()
	sess := &Session{
		ID:       uuid.New().String(),
		Created:  now,
		engine:   calculator.New(),
		lastUsed: now,
		now:      s.now,
	}
	s.sessions[sess.ID] = sess

	sessionsCreated.Inc()
	sessionsActive.Inc()
	return sess, nil
}

func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Delete removes and closes a session and reports whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	delete(s.sessions, id)
	sess.close()
	sessionsActive.Dec()
	return true
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes and closes every session idle for longer than the ttl and
// returns the number removed.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, sess := range s.sessions {
		if sess.idleSince().Before(cutoff) {
			delete(s.sessions, id)
			sess.close()
			n++
		}
	}
	if n > 0 {
		sessionsActive.Sub(float64(n))
		sessionsExpired.Add(float64(n))
		s.logger.Info("expired idle sessions",
			zap.Int("expired", n),
			zap.Int("remaining", len(s.sessions)),
		)
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
