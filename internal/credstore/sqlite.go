package credstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/macromind-app/macromind-cli/internal/common"
	"github.com/macromind-app/macromind-cli/internal/dbx"
	"github.com/macromind-app/macromind-cli/internal/models"
)

// SQLiteStore implements Store over a metadata key/value table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore returns a Store bound to the given database handle.
// The schema is expected to be migrated already (see Open).
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) get(ctx context.Context, q dbx.DBTX, key string) ([]byte, error) {
	var value []byte
	err := q.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) set(ctx context.Context, q dbx.DBTX, key string, value []byte) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) delete(ctx context.Context, q dbx.DBTX, keys ...string) error {
	for _, key := range keys {
		if _, err := q.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, key); err != nil {
			return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
		}
	}
	return nil
}

// SaveTokens writes both tokens in a single transaction so a crash can never
// leave a half-written pair behind.
func (s *SQLiteStore) SaveTokens(ctx context.Context, pair models.TokenPair) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.set(ctx, tx, common.KeyAccessToken, []byte(pair.AccessToken)); err != nil {
			return err
		}
		return s.set(ctx, tx, common.KeyRefreshToken, []byte(pair.RefreshToken))
	})
}

// LoadTokens returns the stored pair, or nil when no access token is stored.
func (s *SQLiteStore) LoadTokens(ctx context.Context) (*models.TokenPair, error) {
	access, err := s.get(ctx, s.db, common.KeyAccessToken)
	if err != nil {
		return nil, err
	}
	if len(access) == 0 {
		return nil, nil
	}
	refresh, err := s.get(ctx, s.db, common.KeyRefreshToken)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{AccessToken: string(access), RefreshToken: string(refresh)}, nil
}

func (s *SQLiteStore) ClearTokens(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.delete(ctx, tx, common.KeyAccessToken, common.KeyRefreshToken)
	})
}

func (s *SQLiteStore) SetGuestFlag(ctx context.Context) error {
	return s.set(ctx, s.db, common.KeyGuestMode, []byte("true"))
}

func (s *SQLiteStore) IsGuestFlagSet(ctx context.Context) (bool, error) {
	value, err := s.get(ctx, s.db, common.KeyGuestMode)
	if err != nil {
		return false, err
	}
	return string(value) == "true", nil
}

func (s *SQLiteStore) ClearGuestFlag(ctx context.Context) error {
	return s.delete(ctx, s.db, common.KeyGuestMode)
}

// CacheUser stores the snapshot as JSON. A nil user clears the cache.
func (s *SQLiteStore) CacheUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return s.delete(ctx, s.db, common.KeyCachedUser)
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user snapshot: %w", err)
	}
	return s.set(ctx, s.db, common.KeyCachedUser, data)
}

func (s *SQLiteStore) LoadCachedUser(ctx context.Context) (*models.User, error) {
	data, err := s.get(ctx, s.db, common.KeyCachedUser)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user snapshot: %w", err)
	}
	return &user, nil
}

// ClearAll removes every session key atomically. Tokens, guest flag and the
// cached snapshot are always invalidated together.
func (s *SQLiteStore) ClearAll(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.delete(ctx, tx,
			common.KeyAccessToken, common.KeyRefreshToken,
			common.KeyGuestMode, common.KeyCachedUser)
	})
}
