package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"viralflow/internal/domain"
	"viralflow/internal/prompt"
)

// AccountsUseCase handles the mock identity layer and the per-user
// settings records.
type AccountsUseCase struct {
	store Store
}

// NewAccountsUseCase creates a new AccountsUseCase.
func NewAccountsUseCase(store Store) *AccountsUseCase {
	return &AccountsUseCase{store: store}
}

// Login creates and persists a user record. No credential check; the
// identity layer is a stand-in for a real provider.
func (uc *AccountsUseCase) Login(ctx context.Context, name, email string) (domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return domain.User{}, fmt.Errorf("%w: name and email are required", domain.ErrUnauthorized)
	}

	user := domain.User{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
	}
	if err := uc.store.SaveUser(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

// User resolves a user id to its record.
func (uc *AccountsUseCase) User(ctx context.Context, id string) (domain.User, error) {
	if id == "" {
		return domain.User{}, domain.ErrUnauthorized
	}
	user, found, err := uc.store.User(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	if !found {
		return domain.User{}, domain.ErrUnauthorized
	}
	return user, nil
}

// Preferences returns the user's generation defaults. A user who never
// saved any gets the platform and tone defaults.
func (uc *AccountsUseCase) Preferences(ctx context.Context, userID string) (domain.Preferences, error) {
	prefs, found, err := uc.store.Preferences(ctx, userID)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("get preferences: %w", err)
	}
	if !found {
		return domain.Preferences{
			DefaultPlatform: string(prompt.DefaultPlatform),
			DefaultTone:     prompt.DefaultTone,
		}, nil
	}
	return prefs, nil
}

// SavePreferences stores the user's generation defaults. Unknown
// platform ids are normalized to the default platform.
func (uc *AccountsUseCase) SavePreferences(ctx context.Context, userID string, prefs domain.Preferences) (domain.Preferences, error) {
	prefs.DefaultPlatform = string(prompt.ParsePlatform(prefs.DefaultPlatform))
	if strings.TrimSpace(prefs.DefaultTone) == "" {
		prefs.DefaultTone = prompt.DefaultTone
	}
	if err := uc.store.SavePreferences(ctx, userID, prefs); err != nil {
		return domain.Preferences{}, fmt.Errorf("save preferences: %w", err)
	}
	return prefs, nil
}

// Profile returns the user's creator profile, zero when unset.
func (uc *AccountsUseCase) Profile(ctx context.Context, userID string) (domain.CreatorProfile, error) {
	profile, _, err := uc.store.Profile(ctx, userID)
	if err != nil {
		return domain.CreatorProfile{}, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// SaveProfile stores the user's creator profile.
func (uc *AccountsUseCase) SaveProfile(ctx context.Context, userID string, profile domain.CreatorProfile) error {
	if err := uc.store.SaveProfile(ctx, userID, profile); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
