// Package common defines shared constants and sentinel errors used across
// the client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Auth gateway errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidationFailed   = errors.New("validation failed")
	ErrTransport          = errors.New("transport error")

	// Session lifecycle errors.
	ErrSessionExpired         = errors.New("session expired")
	ErrProfileSyncFailed      = errors.New("profile sync failed")
	ErrOnboardingNotConfirmed = errors.New("onboarding not confirmed")

	// Guests have no server identity; server-backed operations reject them.
	ErrGuestNotAllowed = errors.New("not available in guest mode")

	// Generic auth failure on an authenticated call (HTTP 401).
	ErrUnauthorized = errors.New("unauthorized")
)
