// Package session holds the panel's view of who is signed in and tells
// interested components when that changes.
package session

import (
	"context"
	"log/slog"
	"sync"

	"matrixadmin.app/panel/internal/events"
)

// Session is the panel-side record of an authenticated user.
type Session struct {
	UserName  string
	UserEmail string
	ID        int64
	UserID    int64
}

// Backend revokes the remote session on sign-out. The HTTP API client
// satisfies it.
type Backend interface {
	SignOut(ctx context.Context) error
}

// Store is the single owner of the current session. Components never cache
// the session themselves; they subscribe and react to changes.
type Store struct {
	backend     Backend
	logger      *slog.Logger
	subscribers map[int]func(*Session)
	current     *Session
	nextSubID   int
	mu          sync.Mutex
}

func NewStore(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		backend:     backend,
		logger:      logger,
		subscribers: map[int]func(*Session){},
	}
}

// Current returns the session, or nil when signed out.
func (s *Store) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers fn for every session change and returns an
// unsubscribe function. fn is called without the store lock held.
func (s *Store) Subscribe(fn func(*Session)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Set replaces the current session and notifies subscribers.
func (s *Store) Set(session *Session) {
	s.mu.Lock()
	s.current = session
	subs := make([]func(*Session), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(session)
	}
}

// SignOut revokes the remote session, then clears the local one. The local
// clear happens even when revocation fails: the panel must not stay signed
// in because the server was unreachable.
func (s *Store) SignOut(ctx context.Context) {
	if err := s.backend.SignOut(ctx); err != nil {
		s.logger.WarnContext(ctx, "remote sign-out failed, clearing local session anyway", "error", err)
	}
	s.Set(nil)
}

// ApplyAuthEvent reacts to a server-pushed auth event. A revocation for the
// current session clears it; anything else is ignored.
func (s *Store) ApplyAuthEvent(evt events.AuthEvent) {
	if evt.Type != events.AuthEventSessionRevoked {
		return
	}

	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	if current == nil || current.ID != evt.SessionID {
		return
	}

	s.logger.Info("session revoked remotely", "session_id", evt.SessionID)
	s.Set(nil)
}
