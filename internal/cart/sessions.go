package cart

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Session is one live cart: a Store with persistence attached.
type Session struct {
	ID    string
	Store *Store

	detach   func()
	lastUsed time.Time
}

// Sessions owns the live cart stores. A store is constructed (rehydrated and
// subscribed to persistence) on first Acquire and torn down by Release, idle
// eviction or Close.
type Sessions struct {
	persister   *Persister
	idle        time.Duration
	loadTimeout time.Duration
	logger      zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	onEvict  []func(sessionID string)
	group    singleflight.Group
	now      func() time.Time
}

// NewSessions creates a session registry. Sessions unused for longer than
// idle are evicted by Run.
func NewSessions(persister *Persister, idle time.Duration, logger zerolog.Logger) *Sessions {
	if idle <= 0 {
		idle = 30 * time.Minute
	}
	return &Sessions{
		persister:   persister,
		idle:        idle,
		loadTimeout: 5 * time.Second,
		logger:      logger.With().Str("component", "cart-sessions").Logger(),
		sessions:    make(map[string]*Session),
		now:         time.Now,
	}
}

// OnEvict registers a hook called with the session id whenever a session is
// torn down.
func (s *Sessions) OnEvict(fn func(sessionID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEvict = append(s.onEvict, fn)
}

// Acquire returns the live session for id, rehydrating it from the slot on
// first use. Concurrent first calls for the same id share one rehydration.
func (s *Sessions) Acquire(ctx context.Context, id string) (*Session, error) {
	if sess := s.lookup(id); sess != nil {
		return sess, nil
	}

	v, err, _ := s.group.Do(id, func() (interface{}, error) {
		if sess := s.lookup(id); sess != nil {
			return sess, nil
		}

		// The load outlives a cancelled caller: other callers share its result.
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
		defer cancel()

		store := NewStore()
		if err := s.persister.Restore(loadCtx, id, store); err != nil {
			return nil, err
		}

		sess := &Session{
			ID:       id,
			Store:    store,
			detach:   s.persister.Attach(id, store),
			lastUsed: s.now(),
		}

		s.mu.Lock()
		s.sessions[id] = sess
		s.mu.Unlock()

		s.logger.Debug().Str("session_id", id).Msg("cart session opened")

		return sess, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Session), nil
}

// Release tears down the session for id. The persisted slot is kept.
func (s *Sessions) Release(id string) {
	s.release(id, func(*Session) bool { return true })
}

// releaseIfIdle releases id only if it is still unused since cutoff. The
// check and the removal happen under one lock so a concurrent Acquire
// either keeps the session alive or gets a fresh one.
func (s *Sessions) releaseIfIdle(id string, cutoff time.Time) bool {
	return s.release(id, func(sess *Session) bool { return sess.lastUsed.Before(cutoff) })
}

func (s *Sessions) release(id string, when func(*Session) bool) bool {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok || !when(sess) {
		s.mu.Unlock()
		return false
	}
	delete(s.sessions, id)
	hooks := s.onEvict
	s.mu.Unlock()

	sess.detach()
	for _, fn := range hooks {
		fn(id)
	}

	s.logger.Debug().Str("session_id", id).Msg("cart session released")
	return true
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// EvictIdle releases every session unused for longer than the idle timeout
// and returns how many were released.
func (s *Sessions) EvictIdle() int {
	cutoff := s.now().Add(-s.idle)

	s.mu.Lock()
	var stale []string
	for id, sess := range s.sessions {
		if sess.lastUsed.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	s.mu.Unlock()

	released := 0
	for _, id := range stale {
		if s.releaseIfIdle(id, cutoff) {
			released++
		}
	}
	return released
}

// Run evicts idle sessions until ctx is cancelled.
func (s *Sessions) Run(ctx context.Context) {
	interval := s.idle / 2
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.EvictIdle(); n > 0 {
				s.logger.Info().Int("evicted", n).Msg("evicted idle cart sessions")
			}
		}
	}
}

// Close releases every live session.
func (s *Sessions) Close() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		s.Release(id)
	}
}

func (s *Sessions) lookup(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	sess.lastUsed = s.now()
	return sess
}
