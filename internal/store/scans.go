package store

import (
	"context"
	"database/sql"
	"fmt"

	"stagehand/internal/model"
	"stagehand/internal/workorder"
)

type rowQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ResolveScan maps a scanned code to the asset or kit it identifies.
// Assets match on barcode or serial, kits on barcode. An unknown code
// resolves to ErrItemNotFound.
func ResolveScan(ctx context.Context, q rowQueryer, code string) (model.ScanIdentity, error) {
	if code == "" {
		return model.ScanIdentity{}, fmt.Errorf("empty scan code: %w", workorder.ErrItemNotFound)
	}

	var assetID int64
	err := q.QueryRowContext(ctx,
		`SELECT id FROM assets WHERE (barcode = ? OR serial = ?) AND deleted_at IS NULL`,
		code, code,
	).Scan(&assetID)
	if err == nil {
		return model.ScanIdentity{AssetID: assetID}, nil
	}
	if err != sql.ErrNoRows {
		return model.ScanIdentity{}, fmt.Errorf("resolving scan against assets: %w", err)
	}

	var kitID int64
	err = q.QueryRowContext(ctx,
		`SELECT id FROM kits WHERE barcode = ? AND deleted_at IS NULL`, code,
	).Scan(&kitID)
	if err == nil {
		return model.ScanIdentity{KitID: kitID}, nil
	}
	if err != sql.ErrNoRows {
		return model.ScanIdentity{}, fmt.Errorf("resolving scan against kits: %w", err)
	}

	return model.ScanIdentity{}, fmt.Errorf("code %q: %w", code, workorder.ErrItemNotFound)
}

// ScanDirectory adapts the database to the staging scan resolver.
type ScanDirectory struct {
	DB *sql.DB
}

func (d ScanDirectory) ResolveScan(ctx context.Context, code string) (model.ScanIdentity, error) {
	return ResolveScan(ctx, d.DB, code)
}

type txScanDirectory struct {
	tx *sql.Tx
}

func (d txScanDirectory) ResolveScan(ctx context.Context, code string) (model.ScanIdentity, error) {
	return ResolveScan(ctx, d.tx, code)
}
