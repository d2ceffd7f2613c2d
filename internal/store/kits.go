package store

import (
	"context"
	"database/sql"
	"fmt"

	"stagehand/internal/model"
)

// CreateKit creates a new kit.
func CreateKit(ctx context.Context, db *sql.DB, name, barcode, description string) (*model.Kit, error) {
	if name == "" {
		return nil, fmt.Errorf("kit name is required")
	}
	if barcode == "" {
		return nil, fmt.Errorf("kit barcode is required")
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO kits (name, barcode, description) VALUES (?, ?, ?)`,
		name, barcode, description,
	)
	if err != nil {
		return nil, fmt.Errorf("creating kit: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting kit id: %w", err)
	}

	return GetKit(ctx, db, id)
}

// GetKit returns a kit by ID.
func GetKit(ctx context.Context, db *sql.DB, id int64) (*model.Kit, error) {
	k := &model.Kit{}
	var description sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, barcode, description, created_at, deleted_at
		 FROM kits WHERE id = ? AND deleted_at IS NULL`, id,
	).Scan(&k.ID, &k.Name, &k.Barcode, &description, &k.CreatedAt, &k.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting kit: %w", err)
	}
	k.Description = description.String
	return k, nil
}

// ListKits returns all non-deleted kits.
func ListKits(ctx context.Context, db *sql.DB) ([]model.Kit, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, barcode, description, created_at, deleted_at
		 FROM kits WHERE deleted_at IS NULL ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing kits: %w", err)
	}
	defer rows.Close()

	var kits []model.Kit
	for rows.Next() {
		var k model.Kit
		var description sql.NullString
		if err := rows.Scan(&k.ID, &k.Name, &k.Barcode, &description, &k.CreatedAt, &k.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning kit: %w", err)
		}
		k.Description = description.String
		kits = append(kits, k)
	}
	return kits, rows.Err()
}

// UpdateKit updates a kit's fields.
func UpdateKit(ctx context.Context, db *sql.DB, id int64, name, barcode, description string) (*model.Kit, error) {
	if name == "" || barcode == "" {
		return nil, fmt.Errorf("kit name and barcode are required")
	}
	_, err := db.ExecContext(ctx,
		`UPDATE kits SET name = ?, barcode = ?, description = ? WHERE id = ? AND deleted_at IS NULL`,
		name, barcode, description, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating kit: %w", err)
	}
	return GetKit(ctx, db, id)
}

// DeleteKit soft-deletes a kit. Kits that sit on an open work order
// cannot be deleted.
func DeleteKit(ctx context.Context, db *sql.DB, id int64) error {
	var open int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM work_order_items i
		 JOIN work_orders w ON w.id = i.work_order_id
		 WHERE i.kit_id = ? AND w.status NOT IN ('checked_out', 'cancelled')`, id,
	).Scan(&open)
	if err != nil {
		return fmt.Errorf("checking kit usage: %w", err)
	}
	if open > 0 {
		return fmt.Errorf("kit is on %d open work order(s)", open)
	}

	_, err = db.ExecContext(ctx,
		`UPDATE kits SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting kit: %w", err)
	}
	return nil
}
