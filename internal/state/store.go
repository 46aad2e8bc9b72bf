package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/moa-plans/agriplan/internal/domain"
)

// Fixed keys in the local key/value store. The token is the server-trusted
// credential; the cached user is a rehydration convenience only and is
// always subordinate to server validation.
const (
	keyAuthToken = "auth_token"
	keyAuthUser  = "auth_user"
)

// Store persists client-local state: the bearer token, the cached session
// user, and a log of export downloads. It is the Go-side stand-in for the
// browser's persistent storage.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store over an open state database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Get returns the value for key and whether the key exists.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM local_store WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading local store key %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO local_store (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing local store key %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM local_store WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("deleting local store key %q: %w", key, err)
	}
	return nil
}

// AuthToken returns the persisted bearer token, or "" when absent.
func (s *Store) AuthToken(ctx context.Context) (string, error) {
	token, _, err := s.Get(ctx, keyAuthToken)
	return token, err
}

// SetAuthToken persists the bearer token.
func (s *Store) SetAuthToken(ctx context.Context, token string) error {
	return s.Set(ctx, keyAuthToken, token)
}

// ClearAuthToken removes the persisted bearer token.
func (s *Store) ClearAuthToken(ctx context.Context) error {
	return s.Delete(ctx, keyAuthToken)
}

// CachedUser returns the persisted session user, or nil when absent. A
// corrupt record is cleared and treated as absent rather than surfaced.
func (s *Store) CachedUser(ctx context.Context) (*domain.User, error) {
	raw, ok, err := s.Get(ctx, keyAuthUser)
	if err != nil || !ok {
		return nil, err
	}

	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		_ = s.Delete(ctx, keyAuthUser)
		return nil, nil
	}
	return &u, nil
}

// SetCachedUser persists the session user for rehydration across runs.
func (s *Store) SetCachedUser(ctx context.Context, u *domain.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("serializing cached user: %w", err)
	}
	return s.Set(ctx, keyAuthUser, string(data))
}

// ClearCachedUser removes the persisted session user.
func (s *Store) ClearCachedUser(ctx context.Context) error {
	return s.Delete(ctx, keyAuthUser)
}

// ExportRecord is one logged export download.
type ExportRecord struct {
	ID        int64
	Filename  string
	ByteSize  int64
	CreatedAt time.Time
}

// RecordExport logs a completed export download.
func (s *Store) RecordExport(ctx context.Context, filename string, size int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO export_log (filename, byte_size, created_at) VALUES (?, ?, ?)`,
		filename, size, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("recording export: %w", err)
	}
	return nil
}

// ListExports returns the most recent export downloads, newest first.
func (s *Store) ListExports(ctx context.Context, limit int) ([]ExportRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, byte_size, created_at FROM export_log
		 ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing exports: %w", err)
	}
	defer rows.Close()

	var records []ExportRecord
	for rows.Next() {
		var r ExportRecord
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Filename, &r.ByteSize, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning export record: %w", err)
		}
		r.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing export timestamp: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating export records: %w", err)
	}
	return records, nil
}
