package store

import (
	"context"
	"sync"

	"viralflow/internal/domain"
)

// MemoryStore is an in-memory store with the same contract as
// BadgerStore. Nothing survives a restart; it backs tests and
// local runs without a data directory.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]domain.User
	prefs    map[string]domain.Preferences
	profiles map[string]domain.CreatorProfile
	history  map[string][]domain.HistoryItem
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]domain.User),
		prefs:    make(map[string]domain.Preferences),
		profiles: make(map[string]domain.CreatorProfile),
		history:  make(map[string][]domain.HistoryItem),
	}
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

// User retrieves a user record by id.
func (s *MemoryStore) User(ctx context.Context, id string) (domain.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	return user, ok, nil
}

// SaveUser stores a user record keyed by its id.
func (s *MemoryStore) SaveUser(ctx context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return nil
}

// Preferences retrieves a user's preferences.
func (s *MemoryStore) Preferences(ctx context.Context, userID string) (domain.Preferences, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prefs, ok := s.prefs[userID]
	return prefs, ok, nil
}

// SavePreferences stores a user's preferences.
func (s *MemoryStore) SavePreferences(ctx context.Context, userID string, prefs domain.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[userID] = prefs
	return nil
}

// Profile retrieves a user's creator profile.
func (s *MemoryStore) Profile(ctx context.Context, userID string) (domain.CreatorProfile, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[userID]
	return profile, ok, nil
}

// SaveProfile stores a user's creator profile.
func (s *MemoryStore) SaveProfile(ctx context.Context, userID string, profile domain.CreatorProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[userID] = profile
	return nil
}

// History retrieves a user's plan history, most recent first.
func (s *MemoryStore) History(ctx context.Context, userID string) ([]domain.HistoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.history[userID]
	out := make([]domain.HistoryItem, len(items))
	copy(out, items)
	return out, nil
}

// SaveHistory stores a user's complete plan history list.
func (s *MemoryStore) SaveHistory(ctx context.Context, userID string, items []domain.HistoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]domain.HistoryItem, len(items))
	copy(kept, items)
	s.history[userID] = kept
	return nil
}
