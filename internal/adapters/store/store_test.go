package store_test

import (
	"context"
	"testing"

	"viralflow/internal/adapters/store"
	"viralflow/internal/domain"
)

// userStore is the contract shared by both implementations.
type userStore interface {
	User(ctx context.Context, id string) (domain.User, bool, error)
	SaveUser(ctx context.Context, user domain.User) error
	Preferences(ctx context.Context, userID string) (domain.Preferences, bool, error)
	SavePreferences(ctx context.Context, userID string, prefs domain.Preferences) error
	Profile(ctx context.Context, userID string) (domain.CreatorProfile, bool, error)
	SaveProfile(ctx context.Context, userID string, profile domain.CreatorProfile) error
	History(ctx context.Context, userID string) ([]domain.HistoryItem, error)
	SaveHistory(ctx context.Context, userID string, items []domain.HistoryItem) error
	Close() error
}

func stores(t *testing.T) map[string]userStore {
	t.Helper()

	badgerStore, err := store.OpenBadger(t.TempDir())
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { badgerStore.Close() })

	return map[string]userStore{
		"badger": badgerStore,
		"memory": store.NewMemoryStore(),
	}
}

func TestStore_SaveAndGetUser(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			// Arrange
			ctx := context.Background()
			user := domain.User{ID: "u1", Name: "小王", Email: "w@example.com"}

			// Act
			if err := s.SaveUser(ctx, user); err != nil {
				t.Fatalf("SaveUser: %v", err)
			}
			got, found, err := s.User(ctx, "u1")

			// Assert
			if err != nil {
				t.Fatalf("User: %v", err)
			}
			if !found {
				t.Fatal("expected user to be found")
			}
			if got != user {
				t.Errorf("got %+v, want %+v", got, user)
			}
		})
	}
}

func TestStore_MissingUser_ReturnsNotFound(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, found, err := s.User(context.Background(), "nobody")
			if err != nil {
				t.Fatalf("User: %v", err)
			}
			if found {
				t.Error("expected user to be absent")
			}
		})
	}
}

func TestStore_MissingPreferences_AreZeroNotError(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			prefs, found, err := s.Preferences(context.Background(), "u1")
			if err != nil {
				t.Fatalf("Preferences: %v", err)
			}
			if found {
				t.Error("expected preferences to be absent")
			}
			if prefs != (domain.Preferences{}) {
				t.Errorf("got %+v, want zero preferences", prefs)
			}
		})
	}
}

func TestStore_PreferencesRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			prefs := domain.Preferences{DefaultPlatform: "小红书 (Red)", DefaultTone: "温暖治愈 (Healing)"}

			if err := s.SavePreferences(ctx, "u1", prefs); err != nil {
				t.Fatalf("SavePreferences: %v", err)
			}
			got, found, err := s.Preferences(ctx, "u1")
			if err != nil || !found {
				t.Fatalf("Preferences: found=%v err=%v", found, err)
			}
			if got != prefs {
				t.Errorf("got %+v, want %+v", got, prefs)
			}
		})
	}
}

func TestStore_ProfileRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			profile := domain.CreatorProfile{
				Niche:          "职场成长",
				TargetAudience: "25-35岁白领",
				Persona:        "犀利但温暖的职场前辈",
				ContentGoal:    "涨粉",
			}

			if err := s.SaveProfile(ctx, "u1", profile); err != nil {
				t.Fatalf("SaveProfile: %v", err)
			}
			got, found, err := s.Profile(ctx, "u1")
			if err != nil || !found {
				t.Fatalf("Profile: found=%v err=%v", found, err)
			}
			if got != profile {
				t.Errorf("got %+v, want %+v", got, profile)
			}
		})
	}
}

func TestStore_HistoryRoundTripKeepsOrder(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			items := []domain.HistoryItem{
				{ID: "h2", Timestamp: 200, Topic: "后发布的"},
				{ID: "h1", Timestamp: 100, Topic: "先发布的"},
			}

			if err := s.SaveHistory(ctx, "u1", items); err != nil {
				t.Fatalf("SaveHistory: %v", err)
			}
			got, err := s.History(ctx, "u1")
			if err != nil {
				t.Fatalf("History: %v", err)
			}
			if len(got) != 2 || got[0].ID != "h2" || got[1].ID != "h1" {
				t.Errorf("order not preserved: %+v", got)
			}
		})
	}
}

func TestStore_MissingHistory_IsEmpty(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			got, err := s.History(context.Background(), "u1")
			if err != nil {
				t.Fatalf("History: %v", err)
			}
			if len(got) != 0 {
				t.Errorf("got %d items, want none", len(got))
			}
		})
	}
}

func TestStore_IsScopedPerUser(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := s.SavePreferences(ctx, "u1", domain.Preferences{DefaultTone: "a"}); err != nil {
				t.Fatalf("SavePreferences: %v", err)
			}

			_, found, err := s.Preferences(ctx, "u2")
			if err != nil {
				t.Fatalf("Preferences: %v", err)
			}
			if found {
				t.Error("u2 must not see u1 preferences")
			}
		})
	}
}

func TestBadgerStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := store.OpenBadger(dir)
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	if err := first.SaveUser(ctx, domain.User{ID: "u1", Name: "小王"}); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := store.OpenBadger(dir)
	if err != nil {
		t.Fatalf("reopen badger: %v", err)
	}
	defer second.Close()

	got, found, err := second.User(ctx, "u1")
	if err != nil || !found {
		t.Fatalf("User after reopen: found=%v err=%v", found, err)
	}
	if got.Name != "小王" {
		t.Errorf("Name = %q", got.Name)
	}
}
