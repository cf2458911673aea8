package onboarding

import (
	"context"
	"sync"
	"time"

	"skilla/internal/domain/onboarding"

	"github.com/google/uuid"
)

// session owns one user's FlowState. mu serializes every engine call on it,
// so a second advance never starts before the first finished persisting.
// retired is set under mu once the session left the registry; holders must
// fetch the replacement instead of using it.
type session struct {
	mu       sync.Mutex
	state    *onboarding.FlowState
	lastUsed time.Time
	retired  bool
}

type registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
	idle     time.Duration
	now      func() time.Time
}

func newRegistry(idle time.Duration) *registry {
	return &registry{
		sessions: make(map[uuid.UUID]*session),
		idle:     idle,
		now:      time.Now,
	}
}

func (r *registry) get(userID uuid.UUID) (*session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	return s, ok
}

// putIfAbsent stores s unless another request won the race, returning the
// session that is now registered.
func (r *registry) putIfAbsent(userID uuid.UUID, s *session) *session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.sessions[userID]; ok {
		return existing
	}
	s.lastUsed = r.now()
	r.sessions[userID] = s
	return s
}

// retire unregisters the user's session after any engine call holding it
// has finished.
func (r *registry) retire(userID uuid.UUID) {
	s, ok := r.get(userID)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retired = true

	r.mu.Lock()
	if r.sessions[userID] == s {
		delete(r.sessions, userID)
	}
	r.mu.Unlock()
}

func (r *registry) touch(s *session) {
	r.mu.Lock()
	s.lastUsed = r.now()
	r.mu.Unlock()
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// sweep evicts sessions idle for longer than the configured duration.
// Sessions busy with an engine call are left for the next sweep.
func (r *registry) sweep() int {
	if r.idle <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idle)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if !s.lastUsed.Before(cutoff) || !s.mu.TryLock() {
			continue
		}
		s.retired = true
		delete(r.sessions, id)
		s.mu.Unlock()
		n++
	}
	return n
}

func (r *registry) runJanitor(ctx context.Context, every time.Duration, onSweep func(int)) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.sweep(); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}
