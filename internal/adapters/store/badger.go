// Package store persists user-scoped state: accounts, preferences,
// creator profiles, and plan history.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"viralflow/internal/domain"
)

// Key prefixes for the Badger keyspace.
const (
	userKeyPrefix    = "user/"
	prefsKeyPrefix   = "prefs/"
	profileKeyPrefix = "profile/"
	historyKeyPrefix = "history/"
)

// BadgerStore is a Badger-backed store. All values are JSON-encoded.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a Badger database at dir.
func OpenBadger(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", dir, err)
	}
	return &BadgerStore{db: db}, nil
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// User retrieves a user record by id.
// Returns the user and true if found, otherwise a zero user and false.
func (s *BadgerStore) User(ctx context.Context, id string) (domain.User, bool, error) {
	var user domain.User
	found, err := s.get(userKeyPrefix+id, &user)
	if err != nil {
		return domain.User{}, false, fmt.Errorf("get user: %w", err)
	}
	return user, found, nil
}

// SaveUser stores a user record keyed by its id.
func (s *BadgerStore) SaveUser(ctx context.Context, user domain.User) error {
	if err := s.set(userKeyPrefix+user.ID, user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// Preferences retrieves a user's preferences.
// Returns zero preferences and false when the user has never saved any.
func (s *BadgerStore) Preferences(ctx context.Context, userID string) (domain.Preferences, bool, error) {
	var prefs domain.Preferences
	found, err := s.get(prefsKeyPrefix+userID, &prefs)
	if err != nil {
		return domain.Preferences{}, false, fmt.Errorf("get preferences: %w", err)
	}
	return prefs, found, nil
}

// SavePreferences stores a user's preferences.
func (s *BadgerStore) SavePreferences(ctx context.Context, userID string, prefs domain.Preferences) error {
	if err := s.set(prefsKeyPrefix+userID, prefs); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// Profile retrieves a user's creator profile.
// Returns a zero profile and false when none has been saved.
func (s *BadgerStore) Profile(ctx context.Context, userID string) (domain.CreatorProfile, bool, error) {
	var profile domain.CreatorProfile
	found, err := s.get(profileKeyPrefix+userID, &profile)
	if err != nil {
		return domain.CreatorProfile{}, false, fmt.Errorf("get profile: %w", err)
	}
	return profile, found, nil
}

// SaveProfile stores a user's creator profile.
func (s *BadgerStore) SaveProfile(ctx context.Context, userID string, profile domain.CreatorProfile) error {
	if err := s.set(profileKeyPrefix+userID, profile); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// History retrieves a user's plan history, most recent first.
// An absent key yields an empty list.
func (s *BadgerStore) History(ctx context.Context, userID string) ([]domain.HistoryItem, error) {
	var items []domain.HistoryItem
	if _, err := s.get(historyKeyPrefix+userID, &items); err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	return items, nil
}

// SaveHistory stores a user's complete plan history list.
func (s *BadgerStore) SaveHistory(ctx context.Context, userID string, items []domain.HistoryItem) error {
	if err := s.set(historyKeyPrefix+userID, items); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

func (s *BadgerStore) get(key string, out any) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *BadgerStore) set(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}
