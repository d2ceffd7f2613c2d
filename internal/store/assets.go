package store

import (
	"context"
	"database/sql"
	"fmt"

	"stagehand/internal/model"
)

// CreateAsset creates a new asset.
func CreateAsset(ctx context.Context, db *sql.DB, name, serial, barcode, status, notes string) (*model.Asset, error) {
	if name == "" {
		return nil, fmt.Errorf("asset name is required")
	}
	if serial == "" {
		return nil, fmt.Errorf("asset serial is required")
	}
	if barcode == "" {
		return nil, fmt.Errorf("asset barcode is required")
	}
	if status == "" {
		status = model.AssetStatusAvailable
	}
	if !model.ValidAssetStatus(status) {
		return nil, fmt.Errorf("invalid asset status %q", status)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO assets (name, serial, barcode, status, notes) VALUES (?, ?, ?, ?, ?)`,
		name, serial, barcode, status, notes,
	)
	if err != nil {
		return nil, fmt.Errorf("creating asset: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting asset id: %w", err)
	}

	return GetAsset(ctx, db, id)
}

// GetAsset returns an asset by ID.
func GetAsset(ctx context.Context, db *sql.DB, id int64) (*model.Asset, error) {
	a := &model.Asset{}
	var notes, mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, serial, barcode, status, notes, photo_mime, created_at, updated_at, deleted_at
		 FROM assets WHERE id = ? AND deleted_at IS NULL`, id,
	).Scan(&a.ID, &a.Name, &a.Serial, &a.Barcode, &a.Status, &notes, &mime,
		&a.CreatedAt, &a.UpdatedAt, &a.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting asset: %w", err)
	}
	a.Notes = notes.String
	a.PhotoMime = mime.String
	return a, nil
}

// ListAssets returns non-deleted assets, optionally filtered by status.
func ListAssets(ctx context.Context, db *sql.DB, status string) ([]model.Asset, error) {
	query := `SELECT id, name, serial, barcode, status, notes, photo_mime, created_at, updated_at, deleted_at
	          FROM assets WHERE deleted_at IS NULL`
	var args []any

	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}

	query += ` ORDER BY name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}
	defer rows.Close()

	var assets []model.Asset
	for rows.Next() {
		var a model.Asset
		var notes, mime sql.NullString
		if err := rows.Scan(&a.ID, &a.Name, &a.Serial, &a.Barcode, &a.Status, &notes, &mime,
			&a.CreatedAt, &a.UpdatedAt, &a.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning asset: %w", err)
		}
		a.Notes = notes.String
		a.PhotoMime = mime.String
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// UpdateAsset updates an asset's fields.
func UpdateAsset(ctx context.Context, db *sql.DB, id int64, name, serial, barcode, status, notes string) (*model.Asset, error) {
	if name == "" || serial == "" || barcode == "" {
		return nil, fmt.Errorf("asset name, serial and barcode are required")
	}
	if !model.ValidAssetStatus(status) {
		return nil, fmt.Errorf("invalid asset status %q", status)
	}

	_, err := db.ExecContext(ctx,
		`UPDATE assets SET name = ?, serial = ?, barcode = ?, status = ?, notes = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		name, serial, barcode, status, notes, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating asset: %w", err)
	}
	return GetAsset(ctx, db, id)
}

// SetAssetStatus updates only an asset's status.
func SetAssetStatus(ctx context.Context, db *sql.DB, id int64, status string) error {
	if !model.ValidAssetStatus(status) {
		return fmt.Errorf("invalid asset status %q", status)
	}
	_, err := db.ExecContext(ctx,
		`UPDATE assets SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("setting asset status: %w", err)
	}
	return nil
}

// DeleteAsset soft-deletes an asset. Assets that sit on an open work
// order cannot be deleted.
func DeleteAsset(ctx context.Context, db *sql.DB, id int64) error {
	var open int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM work_order_items i
		 JOIN work_orders w ON w.id = i.work_order_id
		 WHERE i.asset_id = ? AND w.status NOT IN ('checked_out', 'cancelled')`, id,
	).Scan(&open)
	if err != nil {
		return fmt.Errorf("checking asset usage: %w", err)
	}
	if open > 0 {
		return fmt.Errorf("asset is on %d open work order(s)", open)
	}

	_, err = db.ExecContext(ctx,
		`UPDATE assets SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting asset: %w", err)
	}
	return nil
}

// SetAssetPhoto stores a normalized photo and its thumbnail.
func SetAssetPhoto(ctx context.Context, db *sql.DB, id int64, photo, thumb []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE assets SET photo = ?, photo_thumb = ?, photo_mime = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		photo, thumb, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting asset photo: %w", err)
	}
	return nil
}

// GetAssetPhoto returns an asset's photo (or thumbnail) with its MIME type.
// Returns nil data when the asset has no photo.
func GetAssetPhoto(ctx context.Context, db *sql.DB, id int64, thumb bool) ([]byte, string, error) {
	column := "photo"
	if thumb {
		column = "photo_thumb"
	}
	var data []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT `+column+`, photo_mime FROM assets WHERE id = ? AND deleted_at IS NULL`, id,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting asset photo: %w", err)
	}
	return data, mime.String, nil
}
