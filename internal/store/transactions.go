package store

import (
	"context"
	"database/sql"
	"fmt"

	"stagehand/internal/model"
)

// GetTransaction returns a checkout transaction by ID.
func GetTransaction(ctx context.Context, db *sql.DB, id int64) (*model.Transaction, error) {
	t := &model.Transaction{}
	var createdByName sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT t.id, t.reference, t.work_order_id, t.custodian, t.item_count,
		        t.created_at, t.created_by,
		        w.title AS work_order_title, u.username AS created_by_name
		 FROM transactions t
		 JOIN work_orders w ON w.id = t.work_order_id
		 LEFT JOIN users u ON u.id = t.created_by
		 WHERE t.id = ?`, id,
	).Scan(&t.ID, &t.Reference, &t.WorkOrderID, &t.Custodian, &t.ItemCount,
		&t.CreatedAt, &t.CreatedBy, &t.WorkOrderTitle, &createdByName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting transaction: %w", err)
	}
	t.CreatedByName = createdByName.String
	return t, nil
}

// ListTransactions returns checkout transactions, optionally filtered
// by work order, newest first.
func ListTransactions(ctx context.Context, db *sql.DB, workOrderID int64) ([]model.Transaction, error) {
	query := `SELECT t.id, t.reference, t.work_order_id, t.custodian, t.item_count,
	                 t.created_at, t.created_by,
	                 w.title AS work_order_title, u.username AS created_by_name
	          FROM transactions t
	          JOIN work_orders w ON w.id = t.work_order_id
	          LEFT JOIN users u ON u.id = t.created_by`
	var args []any

	if workOrderID > 0 {
		query += ` WHERE t.work_order_id = ?`
		args = append(args, workOrderID)
	}

	query += ` ORDER BY t.created_at DESC, t.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var transactions []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var createdByName sql.NullString
		if err := rows.Scan(&t.ID, &t.Reference, &t.WorkOrderID, &t.Custodian, &t.ItemCount,
			&t.CreatedAt, &t.CreatedBy, &t.WorkOrderTitle, &createdByName); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		t.CreatedByName = createdByName.String
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
