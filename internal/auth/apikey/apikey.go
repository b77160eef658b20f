// Package apikey validates and manages API keys stored in PostgreSQL.
// Keys are stored only as SHA-256 hashes.
package apikey

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	pkgerrors "github.com/crosscheck-io/crosscheck/pkg/errors"
	"github.com/crosscheck-io/crosscheck/pkg/logger"
	"github.com/crosscheck-io/crosscheck/pkg/postgres"
)

// KeyInfo describes a validated API key.
type KeyInfo struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	RateLimit int       `json:"rate_limit"`
	CreatedAt time.Time `json:"created_at"`
}

// Store manages API keys in PostgreSQL.
type Store struct {
	db     *postgres.Client
	logger *slog.Logger
}

// NewStore creates a Store backed by the given database client.
func NewStore(db *postgres.Client) *Store {
	return &Store{
		db:     db,
		logger: logger.WithComponent("apikey-store"),
	}
}

// HashKey returns the hex SHA-256 digest of a raw key.
func HashKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Validate looks up a raw API key and returns its KeyInfo. Unknown or
// revoked keys return ErrUnauthorized.
func (s *Store) Validate(ctx context.Context, rawKey string) (*KeyInfo, error) {
	const query = `
		SELECT id, name, rate_limit, created_at
		FROM api_keys
		WHERE key_hash = $1 AND revoked_at IS NULL`
	var info KeyInfo
	err := s.db.DB.QueryRowContext(ctx, query, HashKey(rawKey)).
		Scan(&info.ID, &info.Name, &info.RateLimit, &info.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: unknown or revoked api key", pkgerrors.ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("querying api key: %w", err)
	}
	return &info, nil
}

// generateRawKey returns a fresh random key in the cck_<hex> format.
func generateRawKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating api key: %w", err)
	}
	return "cck_" + hex.EncodeToString(buf), nil
}

// CreateKey generates a new random key, stores its hash, and returns
// the raw key. The raw key is only available at creation time.
func (s *Store) CreateKey(ctx context.Context, name string, rateLimit int) (string, *KeyInfo, error) {
	raw, err := generateRawKey()
	if err != nil {
		return "", nil, err
	}

	const query = `
		INSERT INTO api_keys (key_hash, name, rate_limit, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, name, rate_limit, created_at`
	var info KeyInfo
	err = s.db.DB.QueryRowContext(ctx, query, HashKey(raw), name, rateLimit).
		Scan(&info.ID, &info.Name, &info.RateLimit, &info.CreatedAt)
	if err != nil {
		return "", nil, fmt.Errorf("inserting api key: %w", err)
	}
	s.logger.Info("api key created", "id", info.ID, "name", name)
	return raw, &info, nil
}

// RevokeKey marks a key as revoked by ID.
func (s *Store) RevokeKey(ctx context.Context, id int64) error {
	const query = `UPDATE api_keys SET revoked_at = NOW() WHERE id = $1 AND revoked_at IS NULL`
	result, err := s.db.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("revoking api key %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking revoke result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: api key %d not found or already revoked", pkgerrors.ErrInvalidInput, id)
	}
	s.logger.Info("api key revoked", "id", id)
	return nil
}

// ListKeys returns all active keys.
func (s *Store) ListKeys(ctx context.Context) ([]KeyInfo, error) {
	const query = `
		SELECT id, name, rate_limit, created_at
		FROM api_keys
		WHERE revoked_at IS NULL
		ORDER BY created_at`
	rows, err := s.db.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing api keys: %w", err)
	}
	defer rows.Close()

	var keys []KeyInfo
	for rows.Next() {
		var info KeyInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.RateLimit, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning api key row: %w", err)
		}
		keys = append(keys, info)
	}
	return keys, rows.Err()
}
