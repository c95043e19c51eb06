package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/staybook/internal/shared"
	"github.com/desertthunder/staybook/internal/storage"
)

// Scope partitions the client_storage table.
type Scope string

const (
	ScopeLocal   Scope = "local"   // survives logout; auth and preferences
	ScopeSession Scope = "session" // cleared on logout; pending bookings
)

// KVRepository implements [storage.KeyValue] over one scope of the client_storage table.
type KVRepository struct {
	db    *sql.DB
	scope Scope
}

// NewKVRepository creates a new KVRepository for scope.
func NewKVRepository(db *sql.DB, scope Scope) *KVRepository {
	return &KVRepository{db: db, scope: scope}
}

// Get returns the value for key, or [storage.ErrNotFound].
func (r *KVRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(
		"SELECT value FROM client_storage WHERE scope = ? AND key = ?",
		string(r.scope), key,
	).Scan(&value)
	if isNoRows(err) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: failed to read %s/%s: %v", shared.ErrStorage, r.scope, key, err)
	}
	return value, nil
}

// Set inserts or replaces the value for key.
func (r *KVRepository) Set(key, value string) error {
	query := `
		INSERT INTO client_storage (scope, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(scope, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, string(r.scope), key, value, time.Now()); err != nil {
		return fmt.Errorf("%w: failed to write %s/%s: %v", shared.ErrStorage, r.scope, key, err)
	}
	return nil
}

// Remove deletes key. Missing keys are not an error.
func (r *KVRepository) Remove(key string) error {
	if _, err := r.db.Exec("DELETE FROM client_storage WHERE scope = ? AND key = ?", string(r.scope), key); err != nil {
		return fmt.Errorf("%w: failed to remove %s/%s: %v", shared.ErrStorage, r.scope, key, err)
	}
	return nil
}

// Clear removes every key in the scope.
func (r *KVRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM client_storage WHERE scope = ?", string(r.scope)); err != nil {
		return fmt.Errorf("%w: failed to clear %s: %v", shared.ErrStorage, r.scope, err)
	}
	return nil
}

// Keys lists the keys stored in the scope, sorted.
func (r *KVRepository) Keys() ([]string, error) {
	rows, err := r.db.Query("SELECT key FROM client_storage WHERE scope = ? ORDER BY key ASC", string(r.scope))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list %s: %v", shared.ErrStorage, r.scope, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, k)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return keys, nil
}
