package model

import "time"

// Asset represents a serialized piece of equipment tracked individually.
type Asset struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Serial    string     `json:"serial"`
	Barcode   string     `json:"barcode"`
	Status    string     `json:"status"`
	Notes     string     `json:"notes,omitempty"`
	PhotoMime string     `json:"photo_mime,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Asset statuses.
const (
	AssetStatusAvailable   = "available"
	AssetStatusCheckedOut  = "checked_out"
	AssetStatusMaintenance = "maintenance"
	AssetStatusRetired     = "retired"
)

// ValidAssetStatus reports whether s is a known asset status.
func ValidAssetStatus(s string) bool {
	switch s {
	case AssetStatusAvailable, AssetStatusCheckedOut, AssetStatusMaintenance, AssetStatusRetired:
		return true
	}
	return false
}

// Kit is a named bundle of equipment staged as a unit. Kits carry
// their own barcode so a single scan stages the whole bundle.
type Kit struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Barcode     string     `json:"barcode"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}
