package store

import (
	"context"
	"errors"
	"testing"

	"stagehand/internal/db"
	"stagehand/internal/workorder"
)

func TestResolveScan(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	asset, _ := CreateAsset(ctx, database, "Mic", "SN-100", "BC-100", "", "")
	kit, _ := CreateKit(ctx, database, "Kit", "KIT-100", "")

	resolver := ScanDirectory{DB: database}

	identity, err := resolver.ResolveScan(ctx, "BC-100")
	if err != nil {
		t.Fatalf("ResolveScan by barcode: %v", err)
	}
	if identity.AssetID != asset.ID {
		t.Errorf("expected asset %d, got %+v", asset.ID, identity)
	}

	identity, err = resolver.ResolveScan(ctx, "SN-100")
	if err != nil {
		t.Fatalf("ResolveScan by serial: %v", err)
	}
	if identity.AssetID != asset.ID {
		t.Errorf("expected asset %d, got %+v", asset.ID, identity)
	}

	identity, err = resolver.ResolveScan(ctx, "KIT-100")
	if err != nil {
		t.Fatalf("ResolveScan for kit: %v", err)
	}
	if identity.KitID != kit.ID {
		t.Errorf("expected kit %d, got %+v", kit.ID, identity)
	}
}

func TestResolveScanUnknown(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	resolver := ScanDirectory{DB: database}
	if _, err := resolver.ResolveScan(ctx, "NOPE"); !errors.Is(err, workorder.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
	if _, err := resolver.ResolveScan(ctx, ""); !errors.Is(err, workorder.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound for empty code, got %v", err)
	}
}

func TestResolveScanIgnoresDeleted(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	asset, _ := CreateAsset(ctx, database, "Mic", "SN-200", "BC-200", "", "")
	DeleteAsset(ctx, database, asset.ID)

	resolver := ScanDirectory{DB: database}
	if _, err := resolver.ResolveScan(ctx, "BC-200"); !errors.Is(err, workorder.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound for deleted asset, got %v", err)
	}
}
