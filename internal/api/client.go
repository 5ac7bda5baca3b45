// Package api implements the HTTP client for the MacroMind auth service:
// the five identity operations plus profile updates, a typed error taxonomy,
// and transparent single-flight token refresh on authenticated calls.
package api

import (
	"context"

	"github.com/macromind-app/macromind-cli/internal/models"
)

// Client is the auth gateway consumed by the session store.
//
// Register and Login return a fresh token pair; the pair is also retained
// inside the client for subsequent authenticated calls. FetchProfile is the
// sole source of truth for the onboarding completion flag. Logout is a
// best-effort server notification: local state must be cleared by the caller
// regardless of its outcome.
type Client interface {
	Register(ctx context.Context, email, password string) (models.TokenPair, error)
	Login(ctx context.Context, email, password string) (models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)
	FetchProfile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error)
	SubmitOnboarding(ctx context.Context, data models.OnboardingData) (*models.User, error)
	Logout(ctx context.Context) error

	// SetTokens installs the pair used as bearer credential on
	// authenticated calls. ClearTokens drops it.
	SetTokens(pair models.TokenPair)
	ClearTokens()
}
