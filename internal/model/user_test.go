package model

import "testing"

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		role     string
		minimum  string
		expected bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleManager, true},
		{RoleAdmin, RoleUser, true},
		{RoleManager, RoleAdmin, false},
		{RoleManager, RoleManager, true},
		{RoleManager, RoleUser, true},
		{RoleUser, RoleAdmin, false},
		{RoleUser, RoleManager, false},
		{RoleUser, RoleUser, true},
		// Unknown roles fail-closed.
		{"unknown", RoleUser, false},
		{RoleAdmin, "unknown", false},
		{"", "", false},
		{"", RoleUser, false},
	}

	for _, tt := range tests {
		got := RoleAtLeast(tt.role, tt.minimum)
		if got != tt.expected {
			t.Errorf("RoleAtLeast(%q, %q) = %v, want %v", tt.role, tt.minimum, got, tt.expected)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"", true},
		{"short", true},
		{"1234567", true},
		{"12345678", false},
		{"a-valid-password", false},
	}

	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
		}
	}
}

func TestVerificationPolicies(t *testing.T) {
	for _, p := range []string{PolicyCheckoffOnly, PolicyScanRequired, PolicyScanOrCheckoff, PolicyQRRequired} {
		if !ValidPolicy(p) {
			t.Errorf("ValidPolicy(%q) = false, want true", p)
		}
	}
	if ValidPolicy("barcode_only") {
		t.Error("ValidPolicy accepted an unknown policy")
	}

	if !PolicyAllowsCheckoff(PolicyCheckoffOnly) || !PolicyAllowsCheckoff(PolicyScanOrCheckoff) {
		t.Error("expected checkoff to be allowed under checkoff_only and scan_or_checkoff")
	}
	if PolicyAllowsCheckoff(PolicyScanRequired) || PolicyAllowsCheckoff(PolicyQRRequired) {
		t.Error("expected checkoff to be disallowed under scan-only policies")
	}
	if !PolicyRequiresScan(PolicyScanRequired) || !PolicyRequiresScan(PolicyQRRequired) {
		t.Error("expected scan to be required under scan_required and qr_required")
	}
	if PolicyRequiresScan(PolicyScanOrCheckoff) {
		t.Error("scan_or_checkoff should not force scanning")
	}
}
