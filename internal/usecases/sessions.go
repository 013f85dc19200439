package usecases

import (
	"sync"
	"time"
)

// SessionManager hands out one Pipeline per user and evicts pipelines
// that have been idle longer than the TTL. Persistent state lives in
// the store; eviction only drops the in-memory generation state.
type SessionManager struct {
	gen   Generator
	store Store
	ttl   time.Duration

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	pipeline *Pipeline
	lastSeen time.Time
}

// NewSessionManager creates a session manager with the given idle TTL.
func NewSessionManager(gen Generator, store Store, ttl time.Duration) *SessionManager {
	m := &SessionManager{
		gen:      gen,
		store:    store,
		ttl:      ttl,
		sessions: make(map[string]*session),
	}
	go m.cleanup()
	return m
}

// Pipeline returns the user's pipeline, creating an idle one on first
// access, and refreshes its idle timer.
func (m *SessionManager) Pipeline(userID string) *Pipeline {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[userID]
	if !ok {
		entry = &session{pipeline: NewPipeline(m.gen, m.store, userID)}
		m.sessions[userID] = entry
	}
	entry.lastSeen = time.Now()
	return entry.pipeline
}

// Drop discards the user's in-memory pipeline, used on logout.
func (m *SessionManager) Drop(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// cleanup periodically evicts idle sessions.
func (m *SessionManager) cleanup() {
	ticker := time.NewTicker(1 * time.Minute)
	for range ticker.C {
		cutoff := time.Now().Add(-m.ttl)
		m.mu.Lock()
		for userID, entry := range m.sessions {
			if entry.lastSeen.Before(cutoff) {
				delete(m.sessions, userID)
			}
		}
		m.mu.Unlock()
	}
}
