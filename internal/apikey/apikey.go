// Package apikey implements single-tier API key issuance and validation
// (ambient concern, distilled spec §9 "Operator-facing auth"). Grounded
// on the teacher's internal/middleware/auth.go key format (pk_<env>_...)
// and scripts/generate_api_key.go generation logic, simplified from the
// teacher's per-partner/per-tier scheme to one flat table: this router
// has no billing tiers or per-partner rate plans to key off of.
package apikey

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Record is one issued API key, sanitized for display (the raw key and
// its hash never round-trip back out once created).
type Record struct {
	ID         string
	Name       string
	KeyPrefix  string
	Revoked    bool
	CreatedAt  time.Time
	LastUsedAt *time.Time
}

// Generate produces a new raw key, its storage hash, and a display
// prefix. The raw key is shown to the caller exactly once.
func Generate(env string) (key, hash, prefix string, err error) {
	randomBytes := make([]byte, 32)
	if _, err = rand.Read(randomBytes); err != nil {
		return "", "", "", fmt.Errorf("failed to generate key material: %w", err)
	}
	randomStr := hex.EncodeToString(randomBytes)

	key = fmt.Sprintf("pk_%s_%s", env, randomStr)
	hashBytes := sha256.Sum256([]byte(key))
	hash = hex.EncodeToString(hashBytes[:])
	prefix = fmt.Sprintf("pk_%s_%s...", env, randomStr[:8])
	return key, hash, prefix, nil
}

// Create generates a key and inserts its hash into the api_key table,
// returning the raw key (shown once) alongside the stored record.
func Create(ctx context.Context, db *pgxpool.Pool, env, name string) (rawKey string, rec *Record, err error) {
	rawKey, hash, prefix, err := Generate(env)
	if err != nil {
		return "", nil, err
	}

	rec = &Record{Name: name, KeyPrefix: prefix}
	row := db.QueryRow(ctx, `
		INSERT INTO api_key (key_hash, key_prefix, name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, hash, prefix, name)
	if err := row.Scan(&rec.ID, &rec.CreatedAt); err != nil {
		return "", nil, fmt.Errorf("failed to store api key: %w", err)
	}
	return rawKey, rec, nil
}

// Validate looks up a raw key by its hash and reports the matching
// record if it exists and has not been revoked.
func Validate(ctx context.Context, db *pgxpool.Pool, rawKey string) (*Record, error) {
	hashBytes := sha256.Sum256([]byte(rawKey))
	hash := hex.EncodeToString(hashBytes[:])

	rec := &Record{}
	row := db.QueryRow(ctx, `
		SELECT id, name, key_prefix, revoked, created_at, last_used_at
		FROM api_key
		WHERE key_hash = $1 AND revoked = false
	`, hash)
	if err := row.Scan(&rec.ID, &rec.Name, &rec.KeyPrefix, &rec.Revoked, &rec.CreatedAt, &rec.LastUsedAt); err != nil {
		return nil, fmt.Errorf("invalid or revoked api key: %w", err)
	}
	return rec, nil
}

// Touch asynchronously records that an API key was used, mirroring the
// teacher's fire-and-forget updateLastUsed idiom.
func Touch(db *pgxpool.Pool, keyID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, _ = db.Exec(ctx, `UPDATE api_key SET last_used_at = NOW() WHERE id = $1`, keyID)
	}()
}

// Revoke marks a key as no longer usable.
func Revoke(ctx context.Context, db *pgxpool.Pool, keyID string) error {
	_, err := db.Exec(ctx, `UPDATE api_key SET revoked = true WHERE id = $1`, keyID)
	return err
}

// List returns every non-revoked key record, most recent first.
func List(ctx context.Context, db *pgxpool.Pool) ([]*Record, error) {
	rows, err := db.Query(ctx, `
		SELECT id, name, key_prefix, revoked, created_at, last_used_at
		FROM api_key
		WHERE revoked = false
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec := &Record{}
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.KeyPrefix, &rec.Revoked, &rec.CreatedAt, &rec.LastUsedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
