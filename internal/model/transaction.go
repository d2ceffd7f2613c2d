package model

import "time"

// Transaction is the immutable record produced when a work order is
// checked out.
type Transaction struct {
	ID          int64     `json:"id"`
	Reference   string    `json:"reference"`
	WorkOrderID int64     `json:"work_order_id"`
	Custodian   string    `json:"custodian"`
	ItemCount   int       `json:"item_count"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   *int64    `json:"created_by,omitempty"`

	// Joined fields (not always populated).
	WorkOrderTitle string `json:"work_order_title,omitempty"`
	CreatedByName  string `json:"created_by_name,omitempty"`
}
