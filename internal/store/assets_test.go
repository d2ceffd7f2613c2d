package store

import (
	"context"
	"testing"

	"stagehand/internal/db"
	"stagehand/internal/model"
)

func TestCreateAndGetAsset(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	asset, err := CreateAsset(ctx, database, "Shure SM58", "SN-001", "BC-001", "", "")
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	if asset.Status != model.AssetStatusAvailable {
		t.Errorf("expected status 'available', got %q", asset.Status)
	}
	if asset.Barcode != "BC-001" {
		t.Errorf("expected barcode to round-trip, got %q", asset.Barcode)
	}
}

func TestCreateAssetValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateAsset(ctx, database, "", "SN", "BC", "", ""); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := CreateAsset(ctx, database, "Mic", "", "BC", "", ""); err == nil {
		t.Error("expected error for empty serial")
	}
	if _, err := CreateAsset(ctx, database, "Mic", "SN", "BC", "broken", ""); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestDuplicateBarcodeRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateAsset(ctx, database, "Mic A", "SN-A", "BC-DUP", "", "")
	if _, err := CreateAsset(ctx, database, "Mic B", "SN-B", "BC-DUP", "", ""); err == nil {
		t.Error("expected duplicate barcode to be rejected")
	}
}

func TestListAssetsByStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateAsset(ctx, database, "Mic A", "SN-A", "BC-A", "", "")
	broken, _ := CreateAsset(ctx, database, "Mic B", "SN-B", "BC-B", "", "")
	SetAssetStatus(ctx, database, broken.ID, model.AssetStatusMaintenance)

	all, _ := ListAssets(ctx, database, "")
	if len(all) != 2 {
		t.Errorf("expected 2 assets, got %d", len(all))
	}

	available, _ := ListAssets(ctx, database, model.AssetStatusAvailable)
	if len(available) != 1 {
		t.Errorf("expected 1 available asset, got %d", len(available))
	}
}

func TestDeleteAssetOnOpenWorkOrder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	contact, _ := CreateContact(ctx, database, "Custodian", "", "")
	asset, _ := CreateAsset(ctx, database, "Mic", "SN", "BC", "", "")
	order, _ := CreateWorkOrder(ctx, database, WorkOrderParams{
		Title:              "Gig",
		CustodianContactID: &contact.ID,
	})
	AddWorkOrderItem(ctx, database, order.ID, &asset.ID, nil, 1)

	if err := DeleteAsset(ctx, database, asset.ID); err == nil {
		t.Error("expected delete to be refused while on an open work order")
	}

	CancelWorkOrder(ctx, database, order.ID)
	if err := DeleteAsset(ctx, database, asset.ID); err != nil {
		t.Errorf("expected delete to succeed after cancellation: %v", err)
	}
}

func TestAssetPhoto(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	asset, _ := CreateAsset(ctx, database, "Camera", "SN-C", "BC-C", "", "")

	photo := []byte("full photo bytes")
	thumb := []byte("thumb bytes")
	if err := SetAssetPhoto(ctx, database, asset.ID, photo, thumb, "image/jpeg"); err != nil {
		t.Fatalf("SetAssetPhoto: %v", err)
	}

	data, mime, err := GetAssetPhoto(ctx, database, asset.ID, false)
	if err != nil {
		t.Fatalf("GetAssetPhoto: %v", err)
	}
	if string(data) != "full photo bytes" || mime != "image/jpeg" {
		t.Errorf("unexpected photo round-trip: %q %q", data, mime)
	}

	data, _, _ = GetAssetPhoto(ctx, database, asset.ID, true)
	if string(data) != "thumb bytes" {
		t.Errorf("unexpected thumbnail round-trip: %q", data)
	}
}
