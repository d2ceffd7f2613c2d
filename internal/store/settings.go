package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"

	"stagehand/internal/model"
)

// GetJWTSecret retrieves the JWT secret from the database.
// If no secret exists, it generates one, stores it, and returns it.
// Uses INSERT OR IGNORE + re-SELECT to avoid TOCTOU race on concurrent startup.
func GetJWTSecret(ctx context.Context, db *sql.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}
	candidate := hex.EncodeToString(buf)

	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES ('jwt_secret', ?)`,
		candidate,
	)
	if err != nil {
		return "", fmt.Errorf("storing jwt_secret: %w", err)
	}

	// Always read back (either our insert or the existing value).
	var secret string
	err = db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = 'jwt_secret'`,
	).Scan(&secret)
	if err != nil {
		return "", fmt.Errorf("querying jwt_secret: %w", err)
	}

	return secret, nil
}

// GetVerificationPolicy returns the org-wide staging verification
// policy, falling back to the default when none has been set.
func GetVerificationPolicy(ctx context.Context, db *sql.DB) (string, error) {
	var policy string
	err := db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = 'verification_policy'`,
	).Scan(&policy)
	if err == sql.ErrNoRows {
		return model.DefaultVerificationPolicy, nil
	}
	if err != nil {
		return "", fmt.Errorf("querying verification_policy: %w", err)
	}
	if !model.ValidPolicy(policy) {
		return model.DefaultVerificationPolicy, nil
	}
	return policy, nil
}

// SetVerificationPolicy stores the org-wide staging verification policy.
func SetVerificationPolicy(ctx context.Context, db *sql.DB, policy string) error {
	if !model.ValidPolicy(policy) {
		return fmt.Errorf("invalid verification policy %q", policy)
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES ('verification_policy', ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		policy,
	)
	if err != nil {
		return fmt.Errorf("storing verification_policy: %w", err)
	}
	return nil
}
