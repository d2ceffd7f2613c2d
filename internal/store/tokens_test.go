package store

import (
	"context"
	"testing"
	"time"

	"stagehand/internal/db"
)

func TestRevokeToken(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	revoked, err := IsTokenRevoked(ctx, database, "jti-1")
	if err != nil {
		t.Fatalf("IsTokenRevoked: %v", err)
	}
	if revoked {
		t.Error("expected fresh JTI to not be revoked")
	}

	if err := RevokeToken(ctx, database, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}

	revoked, err = IsTokenRevoked(ctx, database, "jti-1")
	if err != nil {
		t.Fatalf("IsTokenRevoked: %v", err)
	}
	if !revoked {
		t.Error("expected JTI to be revoked")
	}

	// Revoking again is a no-op.
	if err := RevokeToken(ctx, database, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken (repeat): %v", err)
	}
}

func TestExpiredRevocationsCleanedUp(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	RevokeToken(ctx, database, "expired", time.Now().Add(-time.Hour))

	// The next revocation sweeps expired entries.
	RevokeToken(ctx, database, "fresh", time.Now().Add(time.Hour))

	revoked, _ := IsTokenRevoked(ctx, database, "expired")
	if revoked {
		t.Error("expected expired revocation to be cleaned up")
	}
}
