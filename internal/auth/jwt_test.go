package auth

import (
	"testing"
	"time"

	"stagehand/internal/model"
)

func TestGenerateAndValidateToken(t *testing.T) {
	secret := "test-secret"

	token, err := GenerateToken(secret, 42, "alice", model.RoleManager)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("Username = %q, want %q", claims.Username, "alice")
	}
	if claims.Role != model.RoleManager {
		t.Errorf("Role = %q, want %q", claims.Role, model.RoleManager)
	}
	if claims.ID == "" {
		t.Error("expected a non-empty JTI")
	}

	exp := claims.ExpiresAt.Time
	want := time.Now().Add(TokenExpiry)
	if exp.Before(want.Add(-time.Minute)) || exp.After(want.Add(time.Minute)) {
		t.Errorf("ExpiresAt = %v, want about %v", exp, want)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret-a", 1, "bob", model.RoleUser)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ValidateToken("secret-b", token); err == nil {
		t.Error("expected validation to fail with the wrong secret")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	if _, err := ValidateToken("secret", "not.a.token"); err == nil {
		t.Error("expected validation to fail for garbage input")
	}
}

func TestUniqueJTIs(t *testing.T) {
	seen := make(map[string]bool)
	for range 5 {
		token, err := GenerateToken("secret", 1, "bob", model.RoleUser)
		if err != nil {
			t.Fatalf("GenerateToken: %v", err)
		}
		claims, err := ValidateToken("secret", token)
		if err != nil {
			t.Fatalf("ValidateToken: %v", err)
		}
		if seen[claims.ID] {
			t.Fatalf("duplicate JTI %q", claims.ID)
		}
		seen[claims.ID] = true
	}
}
