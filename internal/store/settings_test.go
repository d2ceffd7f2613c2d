package store

import (
	"context"
	"testing"

	"stagehand/internal/db"
	"stagehand/internal/model"
)

func TestJWTSecretIsStable(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatalf("GetJWTSecret: %v", err)
	}
	if first == "" {
		t.Fatal("expected a non-empty secret")
	}

	second, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatalf("GetJWTSecret: %v", err)
	}
	if second != first {
		t.Error("expected the same secret on repeated calls")
	}
}

func TestVerificationPolicyDefault(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	policy, err := GetVerificationPolicy(ctx, database)
	if err != nil {
		t.Fatalf("GetVerificationPolicy: %v", err)
	}
	if policy != model.DefaultVerificationPolicy {
		t.Errorf("expected default policy %q, got %q", model.DefaultVerificationPolicy, policy)
	}
}

func TestSetVerificationPolicy(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if err := SetVerificationPolicy(ctx, database, model.PolicyScanRequired); err != nil {
		t.Fatalf("SetVerificationPolicy: %v", err)
	}
	policy, _ := GetVerificationPolicy(ctx, database)
	if policy != model.PolicyScanRequired {
		t.Errorf("expected policy %q, got %q", model.PolicyScanRequired, policy)
	}

	// Overwrite.
	if err := SetVerificationPolicy(ctx, database, model.PolicyCheckoffOnly); err != nil {
		t.Fatalf("SetVerificationPolicy: %v", err)
	}
	policy, _ = GetVerificationPolicy(ctx, database)
	if policy != model.PolicyCheckoffOnly {
		t.Errorf("expected policy %q, got %q", model.PolicyCheckoffOnly, policy)
	}

	if err := SetVerificationPolicy(ctx, database, "vibes"); err == nil {
		t.Error("expected error for unknown policy")
	}
}
