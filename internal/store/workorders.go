package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"stagehand/internal/model"
	"stagehand/internal/workorder"
)

// WorkOrderParams carries the caller-editable fields of a work order.
// Exactly one custodian reference must be set.
type WorkOrderParams struct {
	Title              string
	CustodianUserID    *int64
	CustodianContactID *int64
	CustodianProjectID *int64
	AssignedTo         *int64
	DueDate            *string
	PickupDate         *string
	ExpectedReturnDate *string
	Notes              string
}

func (p *WorkOrderParams) validate() error {
	if p.Title == "" {
		return fmt.Errorf("work order title is required")
	}
	custodians := 0
	if p.CustodianUserID != nil {
		custodians++
	}
	if p.CustodianContactID != nil {
		custodians++
	}
	if p.CustodianProjectID != nil {
		custodians++
	}
	if custodians != 1 {
		return fmt.Errorf("exactly one custodian is required, got %d", custodians)
	}
	return nil
}

// CreateWorkOrder creates a new work order in draft status.
func CreateWorkOrder(ctx context.Context, db *sql.DB, params WorkOrderParams) (*model.WorkOrder, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO work_orders (title, custodian_user_id, custodian_contact_id, custodian_project_id,
		        assigned_to, due_date, pickup_date, expected_return_date, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		params.Title, params.CustodianUserID, params.CustodianContactID, params.CustodianProjectID,
		params.AssignedTo, params.DueDate, params.PickupDate, params.ExpectedReturnDate, params.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("creating work order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting work order id: %w", err)
	}

	return GetWorkOrder(ctx, db, id)
}

// GetWorkOrder returns a work order with its items and joined names.
func GetWorkOrder(ctx context.Context, db *sql.DB, id int64) (*model.WorkOrder, error) {
	w := &model.WorkOrder{}
	var notes, custodianName, assignedToName sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT w.id, w.title, w.status,
		        w.custodian_user_id, w.custodian_contact_id, w.custodian_project_id,
		        w.assigned_to, w.due_date, w.pickup_date, w.expected_return_date,
		        w.notes, w.created_at, w.updated_at,
		        COALESCE(cu.username, cc.name, cp.name) AS custodian_name,
		        au.username AS assigned_to_name
		 FROM work_orders w
		 LEFT JOIN users cu ON cu.id = w.custodian_user_id
		 LEFT JOIN contacts cc ON cc.id = w.custodian_contact_id
		 LEFT JOIN projects cp ON cp.id = w.custodian_project_id
		 LEFT JOIN users au ON au.id = w.assigned_to
		 WHERE w.id = ?`, id,
	).Scan(&w.ID, &w.Title, &w.Status,
		&w.CustodianUserID, &w.CustodianContactID, &w.CustodianProjectID,
		&w.AssignedTo, &w.DueDate, &w.PickupDate, &w.ExpectedReturnDate,
		&notes, &w.CreatedAt, &w.UpdatedAt, &custodianName, &assignedToName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting work order: %w", err)
	}
	w.Notes = notes.String
	w.CustodianName = custodianName.String
	w.AssignedToName = assignedToName.String

	items, err := listWorkOrderItems(ctx, db, id)
	if err != nil {
		return nil, err
	}
	w.Items = items

	return w, nil
}

func listWorkOrderItems(ctx context.Context, db *sql.DB, workOrderID int64) ([]model.WorkOrderItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT i.id, i.work_order_id, i.asset_id, i.kit_id, i.quantity, i.is_staged,
		        COALESCE(a.name, '') AS asset_name, COALESCE(a.serial, '') AS asset_serial,
		        COALESCE(k.name, '') AS kit_name
		 FROM work_order_items i
		 LEFT JOIN assets a ON a.id = i.asset_id
		 LEFT JOIN kits k ON k.id = i.kit_id
		 WHERE i.work_order_id = ?
		 ORDER BY i.id`, workOrderID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing work order items: %w", err)
	}
	defer rows.Close()

	var items []model.WorkOrderItem
	for rows.Next() {
		var i model.WorkOrderItem
		if err := rows.Scan(&i.ID, &i.WorkOrderID, &i.AssetID, &i.KitID, &i.Quantity, &i.IsStaged,
			&i.AssetName, &i.AssetSerial, &i.KitName); err != nil {
			return nil, fmt.Errorf("scanning work order item: %w", err)
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// WorkOrderSummary is a list row with staging progress attached.
type WorkOrderSummary struct {
	model.WorkOrder
	Progress model.Progress `json:"progress"`
}

// ListWorkOrders returns work orders, optionally filtered by status,
// newest first, each with its staging progress.
func ListWorkOrders(ctx context.Context, db *sql.DB, status string) ([]WorkOrderSummary, error) {
	if status != "" && !workorder.ValidStatus(status) {
		return nil, fmt.Errorf("invalid work order status %q", status)
	}

	query := `SELECT w.id, w.title, w.status,
	                 w.custodian_user_id, w.custodian_contact_id, w.custodian_project_id,
	                 w.assigned_to, w.due_date, w.pickup_date, w.expected_return_date,
	                 w.notes, w.created_at, w.updated_at,
	                 COALESCE(cu.username, cc.name, cp.name) AS custodian_name,
	                 COALESCE((SELECT COUNT(*) FROM work_order_items i
	                           WHERE i.work_order_id = w.id AND i.is_staged = 1), 0) AS staged,
	                 COALESCE((SELECT COUNT(*) FROM work_order_items i
	                           WHERE i.work_order_id = w.id), 0) AS total
	          FROM work_orders w
	          LEFT JOIN users cu ON cu.id = w.custodian_user_id
	          LEFT JOIN contacts cc ON cc.id = w.custodian_contact_id
	          LEFT JOIN projects cp ON cp.id = w.custodian_project_id`
	var args []any

	if status != "" {
		query += ` WHERE w.status = ?`
		args = append(args, status)
	}

	query += ` ORDER BY w.created_at DESC, w.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing work orders: %w", err)
	}
	defer rows.Close()

	var orders []WorkOrderSummary
	for rows.Next() {
		var s WorkOrderSummary
		var notes, custodianName sql.NullString
		var staged, total int
		if err := rows.Scan(&s.ID, &s.Title, &s.Status,
			&s.CustodianUserID, &s.CustodianContactID, &s.CustodianProjectID,
			&s.AssignedTo, &s.DueDate, &s.PickupDate, &s.ExpectedReturnDate,
			&notes, &s.CreatedAt, &s.UpdatedAt, &custodianName, &staged, &total); err != nil {
			return nil, fmt.Errorf("scanning work order: %w", err)
		}
		s.Notes = notes.String
		s.CustodianName = custodianName.String
		s.Progress = model.Progress{Staged: staged, Total: total}
		if total > 0 {
			s.Progress.Percent = staged * 100 / total
		}
		orders = append(orders, s)
	}
	return orders, rows.Err()
}

// UpdateWorkOrder updates a work order's metadata. Only draft and
// in_progress orders can be edited.
func UpdateWorkOrder(ctx context.Context, db *sql.DB, id int64, params WorkOrderParams) (*model.WorkOrder, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	status, err := getWorkOrderStatus(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return nil, nil
	}
	if !workorder.Stageable(status) {
		return nil, fmt.Errorf("editing %s work order: %w", status, workorder.ErrInvalidTransition)
	}

	_, err = db.ExecContext(ctx,
		`UPDATE work_orders SET title = ?, custodian_user_id = ?, custodian_contact_id = ?,
		        custodian_project_id = ?, assigned_to = ?, due_date = ?, pickup_date = ?,
		        expected_return_date = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		params.Title, params.CustodianUserID, params.CustodianContactID, params.CustodianProjectID,
		params.AssignedTo, params.DueDate, params.PickupDate, params.ExpectedReturnDate, params.Notes, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating work order: %w", err)
	}
	return GetWorkOrder(ctx, db, id)
}

func getWorkOrderStatus(ctx context.Context, db *sql.DB, id int64) (string, error) {
	var status string
	err := db.QueryRowContext(ctx,
		`SELECT status FROM work_orders WHERE id = ?`, id,
	).Scan(&status)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting work order status: %w", err)
	}
	return status, nil
}

// AddWorkOrderItem adds an asset or kit line to a work order. Items
// can only be added while the order is draft or in_progress.
func AddWorkOrderItem(ctx context.Context, db *sql.DB, workOrderID int64, assetID, kitID *int64, quantity int) (*model.WorkOrder, error) {
	if (assetID != nil) == (kitID != nil) {
		return nil, fmt.Errorf("exactly one of asset or kit is required")
	}
	if quantity < 1 {
		quantity = 1
	}

	status, err := getWorkOrderStatus(ctx, db, workOrderID)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return nil, nil
	}
	if !workorder.Stageable(status) {
		return nil, fmt.Errorf("adding item to %s work order: %w", status, workorder.ErrInvalidTransition)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO work_order_items (work_order_id, asset_id, kit_id, quantity)
		 VALUES (?, ?, ?, ?)`,
		workOrderID, assetID, kitID, quantity,
	)
	if err != nil {
		return nil, fmt.Errorf("adding work order item: %w", err)
	}
	return GetWorkOrder(ctx, db, workOrderID)
}

// RemoveWorkOrderItem removes a line from a work order. Items can only
// be removed while the order is draft or in_progress.
func RemoveWorkOrderItem(ctx context.Context, db *sql.DB, workOrderID, itemID int64) error {
	status, err := getWorkOrderStatus(ctx, db, workOrderID)
	if err != nil {
		return err
	}
	if status == "" {
		return fmt.Errorf("work order %d: %w", workOrderID, workorder.ErrItemNotFound)
	}
	if !workorder.Stageable(status) {
		return fmt.Errorf("removing item from %s work order: %w", status, workorder.ErrInvalidTransition)
	}

	result, err := db.ExecContext(ctx,
		`DELETE FROM work_order_items WHERE id = ? AND work_order_id = ?`,
		itemID, workOrderID,
	)
	if err != nil {
		return fmt.Errorf("removing work order item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("removing work order item: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("item %d: %w", itemID, workorder.ErrItemNotFound)
	}
	return nil
}

// SetItemStaged marks a work order item staged or unstaged in a single
// transaction, re-validating against the current status. Staging the
// first item of a draft order moves it to in_progress.
func SetItemStaged(ctx context.Context, db *sql.DB, workOrderID, itemID int64, staged bool) (*model.WorkOrder, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	w, err := loadWorkOrderTx(ctx, tx, workOrderID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, nil
	}

	if err := workorder.StageItem(w, itemID, staged); err != nil {
		return nil, fmt.Errorf("staging item %d: %w", itemID, err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE work_order_items SET is_staged = ? WHERE id = ?`,
		staged, itemID,
	); err != nil {
		return nil, fmt.Errorf("updating item staged flag: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE work_orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		w.Status, workOrderID,
	); err != nil {
		return nil, fmt.Errorf("updating work order status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing staging update: %w", err)
	}

	return GetWorkOrder(ctx, db, workOrderID)
}

// StageByScan stages the item matching a scanned code in a single
// transaction. The scanned item is returned alongside the refreshed
// work order; staging an already-staged item is a no-op.
func StageByScan(ctx context.Context, db *sql.DB, workOrderID int64, code string) (*model.WorkOrder, *model.WorkOrderItem, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	w, err := loadWorkOrderTx(ctx, tx, workOrderID)
	if err != nil {
		return nil, nil, err
	}
	if w == nil {
		return nil, nil, nil
	}

	item, err := workorder.StageByScan(ctx, w, code, txScanDirectory{tx})
	if err != nil {
		return nil, nil, fmt.Errorf("staging by scan: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE work_order_items SET is_staged = 1 WHERE id = ?`,
		item.ID,
	); err != nil {
		return nil, nil, fmt.Errorf("updating item staged flag: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE work_orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		w.Status, workOrderID,
	); err != nil {
		return nil, nil, fmt.Errorf("updating work order status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("committing scan staging: %w", err)
	}

	refreshed, err := GetWorkOrder(ctx, db, workOrderID)
	if err != nil {
		return nil, nil, err
	}
	staged := workorder.FindItem(refreshed, item.ID)
	return refreshed, staged, nil
}

// MarkWorkOrderReady moves a fully staged in_progress work order to ready.
func MarkWorkOrderReady(ctx context.Context, db *sql.DB, id int64) (*model.WorkOrder, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	w, err := loadWorkOrderTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, nil
	}

	if err := workorder.MarkReady(w); err != nil {
		return nil, fmt.Errorf("marking work order ready: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE work_orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		w.Status, id,
	); err != nil {
		return nil, fmt.Errorf("updating work order status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing ready update: %w", err)
	}

	return GetWorkOrder(ctx, db, id)
}

// CancelWorkOrder cancels a draft or in_progress work order.
func CancelWorkOrder(ctx context.Context, db *sql.DB, id int64) (*model.WorkOrder, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	w, err := loadWorkOrderTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, nil
	}

	if err := workorder.Cancel(w); err != nil {
		return nil, fmt.Errorf("cancelling work order: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE work_orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		w.Status, id,
	); err != nil {
		return nil, fmt.Errorf("updating work order status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing cancellation: %w", err)
	}

	return GetWorkOrder(ctx, db, id)
}

// CheckoutWorkOrder hands a fully staged work order to its custodian.
// In a single transaction it re-validates the checkout, records an
// immutable transaction with a unique reference, flips every staged
// asset to checked_out and moves the order to checked_out.
func CheckoutWorkOrder(ctx context.Context, db *sql.DB, id int64, createdBy *int64) (*model.Transaction, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	w, err := loadWorkOrderTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, nil
	}

	if err := workorder.CanCheckout(w); err != nil {
		return nil, fmt.Errorf("checking out work order: %w", err)
	}

	var custodian string
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(cu.username, cc.name, cp.name, '')
		 FROM work_orders w
		 LEFT JOIN users cu ON cu.id = w.custodian_user_id
		 LEFT JOIN contacts cc ON cc.id = w.custodian_contact_id
		 LEFT JOIN projects cp ON cp.id = w.custodian_project_id
		 WHERE w.id = ?`, id,
	).Scan(&custodian)
	if err != nil {
		return nil, fmt.Errorf("resolving custodian: %w", err)
	}

	reference := uuid.NewString()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (reference, work_order_id, custodian, item_count, created_by)
		 VALUES (?, ?, ?, ?, ?)`,
		reference, id, custodian, len(w.Items), createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("recording checkout: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE assets SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id IN (SELECT asset_id FROM work_order_items
		              WHERE work_order_id = ? AND asset_id IS NOT NULL)`,
		model.AssetStatusCheckedOut, id,
	); err != nil {
		return nil, fmt.Errorf("updating asset statuses: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE work_orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		model.WorkOrderStatusCheckedOut, id,
	); err != nil {
		return nil, fmt.Errorf("updating work order status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing checkout: %w", err)
	}

	transactionID, _ := result.LastInsertId()
	return GetTransaction(ctx, db, transactionID)
}

// DeleteWorkOrder hard-deletes a work order and its items. Only
// cancelled orders and drafts with nothing staged can be deleted.
func DeleteWorkOrder(ctx context.Context, db *sql.DB, id int64) error {
	w, err := GetWorkOrder(ctx, db, id)
	if err != nil {
		return err
	}
	if w == nil {
		return nil
	}

	if !workorder.Deletable(w) {
		return fmt.Errorf("deleting %s work order: %w", w.Status, workorder.ErrInvalidTransition)
	}

	_, err = db.ExecContext(ctx, `DELETE FROM work_orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting work order: %w", err)
	}
	return nil
}

// loadWorkOrderTx loads a work order with its items inside a
// transaction, without the joined display names.
func loadWorkOrderTx(ctx context.Context, tx *sql.Tx, id int64) (*model.WorkOrder, error) {
	w := &model.WorkOrder{}
	err := tx.QueryRowContext(ctx,
		`SELECT id, title, status FROM work_orders WHERE id = ?`, id,
	).Scan(&w.ID, &w.Title, &w.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading work order: %w", err)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT id, work_order_id, asset_id, kit_id, quantity, is_staged
		 FROM work_order_items WHERE work_order_id = ? ORDER BY id`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("loading work order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var i model.WorkOrderItem
		if err := rows.Scan(&i.ID, &i.WorkOrderID, &i.AssetID, &i.KitID, &i.Quantity, &i.IsStaged); err != nil {
			return nil, fmt.Errorf("scanning work order item: %w", err)
		}
		w.Items = append(w.Items, i)
	}
	return w, rows.Err()
}
