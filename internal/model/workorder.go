package model

import "time"

// WorkOrder is an equipment pull list prepared for a custodian.
// Exactly one of the custodian references is set.
type WorkOrder struct {
	ID                 int64           `json:"id"`
	Title              string          `json:"title"`
	Status             string          `json:"status"`
	CustodianUserID    *int64          `json:"custodian_user_id,omitempty"`
	CustodianContactID *int64          `json:"custodian_contact_id,omitempty"`
	CustodianProjectID *int64          `json:"custodian_project_id,omitempty"`
	AssignedTo         *int64          `json:"assigned_to,omitempty"`
	DueDate            *time.Time      `json:"due_date,omitempty"`
	PickupDate         *time.Time      `json:"pickup_date,omitempty"`
	ExpectedReturnDate *time.Time      `json:"expected_return_date,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	Items              []WorkOrderItem `json:"items,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`

	// Joined fields (not always populated).
	CustodianName  string `json:"custodian_name,omitempty"`
	AssignedToName string `json:"assigned_to_name,omitempty"`
}

// Work order statuses. Transitions only move forward, except an
// explicit cancellation from draft or in_progress. checked_out and
// cancelled are terminal.
const (
	WorkOrderStatusDraft      = "draft"
	WorkOrderStatusInProgress = "in_progress"
	WorkOrderStatusReady      = "ready"
	WorkOrderStatusCheckedOut = "checked_out"
	WorkOrderStatusCancelled  = "cancelled"
)

// WorkOrderItem is a single line on a work order, referencing exactly
// one of an asset or a kit.
type WorkOrderItem struct {
	ID          int64  `json:"id"`
	WorkOrderID int64  `json:"work_order_id"`
	AssetID     *int64 `json:"asset_id,omitempty"`
	KitID       *int64 `json:"kit_id,omitempty"`
	Quantity    int    `json:"quantity"`
	IsStaged    bool   `json:"is_staged"`

	// Joined fields (not always populated).
	AssetName   string `json:"asset_name,omitempty"`
	AssetSerial string `json:"asset_serial,omitempty"`
	KitName     string `json:"kit_name,omitempty"`
}

// Progress summarizes how much of a work order has been staged.
type Progress struct {
	Staged  int `json:"staged_count"`
	Total   int `json:"total_count"`
	Percent int `json:"percent"`
}

// ScanIdentity is the asset or kit a scanned code resolved to.
// At most one of AssetID/KitID is non-zero.
type ScanIdentity struct {
	AssetID int64 `json:"asset_id,omitempty"`
	KitID   int64 `json:"kit_id,omitempty"`
}

// Staging verification policies. The policy is an org-wide setting
// that tells clients which staging affordance to offer; the engine
// itself does not enforce it.
const (
	PolicyCheckoffOnly   = "checkoff_only"
	PolicyScanRequired   = "scan_required"
	PolicyScanOrCheckoff = "scan_or_checkoff"
	PolicyQRRequired     = "qr_required"
)

// DefaultVerificationPolicy is used until an admin picks one.
const DefaultVerificationPolicy = PolicyScanOrCheckoff

// ValidPolicy reports whether p is a known verification policy.
func ValidPolicy(p string) bool {
	switch p {
	case PolicyCheckoffOnly, PolicyScanRequired, PolicyScanOrCheckoff, PolicyQRRequired:
		return true
	}
	return false
}

// PolicyAllowsCheckoff reports whether manual checkbox staging is an
// offered affordance under the policy.
func PolicyAllowsCheckoff(p string) bool {
	return p == PolicyCheckoffOnly || p == PolicyScanOrCheckoff
}

// PolicyRequiresScan reports whether staging must go through a scan
// under the policy.
func PolicyRequiresScan(p string) bool {
	return p == PolicyScanRequired || p == PolicyQRRequired
}
