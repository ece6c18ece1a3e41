package chat

import (
	"context"
	"sync"
	"time"
)

// SessionStore owns all conversation state. GetOrCreate returns the same
// evolving state for repeated calls with one session id; Update deep-merges
// a partial update; Clear removes a session entirely.
type SessionStore interface {
	GetOrCreate(ctx context.Context, sessionID string) (*State, error)
	Update(ctx context.Context, sessionID string, upd StateUpdate) (*State, error)
	Clear(ctx context.Context, sessionID string) error
	ListSessionIDs(ctx context.Context) ([]string, error)
}

const defaultSessionTTL = 24 * time.Hour

// MemoryStore is the in-process SessionStore. Sessions idle past the TTL are
// evicted by a background janitor so the map cannot grow without bound.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*State

	ttl    time.Duration
	done   chan struct{}
	closed sync.Once
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithSessionTTL overrides how long an idle session survives.
func WithSessionTTL(ttl time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewMemoryStore creates an in-memory session store and starts its eviction
// janitor. Call Close to stop the janitor.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]*State),
		ttl:      defaultSessionTTL,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.runJanitor()
	return s
}

func (s *MemoryStore) GetOrCreate(_ context.Context, sessionID string) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		state = NewState(sessionID)
		s.sessions[sessionID] = state
	}
	return state.Clone(), nil
}

func (s *MemoryStore) Update(_ context.Context, sessionID string, upd StateUpdate) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		state = NewState(sessionID)
		s.sessions[sessionID] = state
	}
	applyUpdate(state, upd)
	return state.Clone(), nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *MemoryStore) ListSessionIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids, nil
}

// Close stops the eviction janitor.
func (s *MemoryStore) Close() {
	s.closed.Do(func() { close(s.done) })
}

func (s *MemoryStore) runJanitor() {
	interval := s.ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.evictStale(time.Now())
		}
	}
}

func (s *MemoryStore) evictStale(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, state := range s.sessions {
		if now.Sub(state.UpdatedAt) > s.ttl {
			delete(s.sessions, id)
		}
	}
}
