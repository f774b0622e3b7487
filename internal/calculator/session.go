package calculator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = errors.New("session not found")

type session struct {
	mu       sync.Mutex
	calc     *Calculator
	lastUsed time.Time
}

// Store keeps one Calculator per client session.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewStore returns an empty store. Sessions idle for longer than ttl are
// removed by Sweep; a ttl of zero keeps them forever.
func NewStore(ttl time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// Create starts a new session in the fresh state.
func (s *Store) Create() (string, State) {
	id := uuid.NewString()
	sess := &session{
		calc:     New(s.logger.With(zap.String("session_id", id))),
		lastUsed: s.now(),
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	return id, sess.calc.CurrentState()
}

func (s *Store) lookup(id string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
	}
	return sess, nil
}

// Get returns the live state of a session.
func (s *Store) Get(id string) (State, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return State{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.calc.CurrentState(), nil
}

// Dispatch feeds labels to a session in order. It returns the resulting
// state and the labels that were not keys.
func (s *Store) Dispatch(id string, labels ...string) (State, []string, error) {
	return s.dispatch(id, nil, labels)
}

// DispatchObserved is Dispatch with fn called after each applied key.
func (s *Store) DispatchObserved(id string, fn Observer, labels ...string) (State, []string, error) {
	return s.dispatch(id, fn, labels)
}

func (s *Store) dispatch(id string, fn Observer, labels []string) (State, []string, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return State{}, nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	var ignored []string
	for _, label := range labels {
		in, ok := Classify(label)
		if !ok {
			ignored = append(ignored, label)
			continue
		}
		prev := sess.calc.CurrentState()
		next := sess.calc.Apply(in)
		if fn != nil {
			fn(prev, next, in)
		}
	}
	sess.lastUsed = s.now()

	return sess.calc.CurrentState(), ignored, nil
}

// Reset clears a session back to the fresh state.
func (s *Store) Reset(id string) (State, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return State{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.calc.Reset()
	sess.lastUsed = s.now()
	return sess.calc.CurrentState(), nil
}

// Delete removes a session.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
	}
	delete(s.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes sessions idle since before now minus the TTL and returns how
// many were removed.
func (s *Store) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := now.Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.lastUsed.Before(cutoff)
		sess.mu.Unlock()

		if idle {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 || s.ttl <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			if n := s.Sweep(t); n > 0 {
				s.logger.Info("expired calculator sessions", zap.Int("removed", n))
			}
		}
	}
}
