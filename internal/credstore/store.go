// Package credstore persists session credentials and the cached user
// snapshot in a local SQLite key/value table. It is pure storage: no
// network access and no session logic. Absence of a key is a normal
// state, reported as nil rather than an error.
package credstore

import (
	"context"

	"github.com/macromind-app/macromind-cli/internal/models"
)

// Store is the durable client-side credential storage.
//
// Contract:
//   - SaveTokens/LoadTokens/ClearTokens: the opaque bearer token pair.
//     LoadTokens returns nil when no pair is stored.
//   - SetGuestFlag/IsGuestFlagSet/ClearGuestFlag: the guest-mode marker.
//   - CacheUser/LoadCachedUser: the last server-confirmed user snapshot.
//     LoadCachedUser returns nil when nothing is cached.
//   - ClearAll: wipes every session key in one shot (logout, fatal refresh
//     failure).
type Store interface {
	SaveTokens(ctx context.Context, pair models.TokenPair) error
	LoadTokens(ctx context.Context) (*models.TokenPair, error)
	ClearTokens(ctx context.Context) error

	SetGuestFlag(ctx context.Context) error
	IsGuestFlagSet(ctx context.Context) (bool, error)
	ClearGuestFlag(ctx context.Context) error

	CacheUser(ctx context.Context, user *models.User) error
	LoadCachedUser(ctx context.Context) (*models.User, error)

	ClearAll(ctx context.Context) error
}
