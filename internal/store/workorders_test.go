package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"stagehand/internal/db"
	"stagehand/internal/model"
	"stagehand/internal/workorder"
)

// seedWorkOrder creates a contact-custodian work order with two asset
// lines and one kit line.
func seedWorkOrder(t *testing.T, database *sql.DB) *model.WorkOrder {
	t.Helper()
	ctx := context.Background()

	contact, err := CreateContact(ctx, database, "Ana Novak", "", "")
	if err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	micA, err := CreateAsset(ctx, database, "Shure SM58", "SN-001", "BC-001", "", "")
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	micB, err := CreateAsset(ctx, database, "Shure SM7B", "SN-002", "BC-002", "", "")
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	kit, err := CreateKit(ctx, database, "Cable Kit", "KIT-001", "")
	if err != nil {
		t.Fatalf("CreateKit: %v", err)
	}

	order, err := CreateWorkOrder(ctx, database, WorkOrderParams{
		Title:              "Festival stage",
		CustodianContactID: &contact.ID,
	})
	if err != nil {
		t.Fatalf("CreateWorkOrder: %v", err)
	}
	if _, err := AddWorkOrderItem(ctx, database, order.ID, &micA.ID, nil, 1); err != nil {
		t.Fatalf("AddWorkOrderItem: %v", err)
	}
	if _, err := AddWorkOrderItem(ctx, database, order.ID, &micB.ID, nil, 1); err != nil {
		t.Fatalf("AddWorkOrderItem: %v", err)
	}
	order, err = AddWorkOrderItem(ctx, database, order.ID, nil, &kit.ID, 1)
	if err != nil {
		t.Fatalf("AddWorkOrderItem: %v", err)
	}
	return order
}

func TestCreateWorkOrderCustodianValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateWorkOrder(ctx, database, WorkOrderParams{Title: "No custodian"}); err == nil {
		t.Error("expected error for missing custodian")
	}

	contact, _ := CreateContact(ctx, database, "Contact", "", "")
	project, _ := CreateProject(ctx, database, "Project", "")
	_, err := CreateWorkOrder(ctx, database, WorkOrderParams{
		Title:              "Two custodians",
		CustodianContactID: &contact.ID,
		CustodianProjectID: &project.ID,
	})
	if err == nil {
		t.Error("expected error for two custodians")
	}

	if _, err := CreateWorkOrder(ctx, database, WorkOrderParams{CustodianContactID: &contact.ID}); err == nil {
		t.Error("expected error for missing title")
	}
}

func TestWorkOrderStartsInDraft(t *testing.T) {
	database := db.NewTestDB(t)
	order := seedWorkOrder(t, database)

	if order.Status != model.WorkOrderStatusDraft {
		t.Errorf("expected status 'draft', got %q", order.Status)
	}
	if len(order.Items) != 3 {
		t.Errorf("expected 3 items, got %d", len(order.Items))
	}
	if order.CustodianName != "Ana Novak" {
		t.Errorf("expected custodian name to be joined, got %q", order.CustodianName)
	}
	if order.Items[0].AssetName != "Shure SM58" {
		t.Errorf("expected asset name to be joined, got %q", order.Items[0].AssetName)
	}
}

func TestStagingFirstItemStartsProgress(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	order := seedWorkOrder(t, database)

	updated, err := SetItemStaged(ctx, database, order.ID, order.Items[0].ID, true)
	if err != nil {
		t.Fatalf("SetItemStaged: %v", err)
	}
	if updated.Status != model.WorkOrderStatusInProgress {
		t.Errorf("expected status 'in_progress', got %q", updated.Status)
	}
	if !updated.Items[0].IsStaged {
		t.Error("expected first item to be staged")
	}

	progress := workorder.ComputeProgress(updated)
	if progress.Staged != 1 || progress.Total != 3 || progress.Percent != 33 {
		t.Errorf("unexpected progress: %+v", progress)
	}
}

func TestUnstagingItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	order := seedWorkOrder(t, database)

	SetItemStaged(ctx, database, order.ID, order.Items[0].ID, true)
	updated, err := SetItemStaged(ctx, database, order.ID, order.Items[0].ID, false)
	if err != nil {
		t.Fatalf("SetItemStaged (unstage): %v", err)
	}
	if updated.Items[0].IsStaged {
		t.Error("expected item to be unstaged")
	}
	// Unstaging does not move the order back to draft.
	if updated.Status != model.WorkOrderStatusInProgress {
		t.Errorf("expected status 'in_progress', got %q", updated.Status)
	}
}

func TestStagingUnknownItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	order := seedWorkOrder(t, database)

	_, err := SetItemStaged(ctx, database, order.ID, 9999, true)
	if !errors.Is(err, workorder.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func stageAll(t *testing.T, database *sql.DB, order *model.WorkOrder) *model.WorkOrder {
	t.Helper()
	ctx := context.Background()
	var updated *model.WorkOrder
	var err error
	for _, item := range order.Items {
		updated, err = SetItemStaged(ctx, database, order.ID, item.ID, true)
		if err != nil {
			t.Fatalf("SetItemStaged(%d): %v", item.ID, err)
		}
	}
	return updated
}

func TestMarkReady(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	order := seedWorkOrder(t, database)

	// Incomplete staging is refused.
	SetItemStaged(ctx, database, order.ID, order.Items[0].ID, true)
	_, err := MarkWorkOrderReady(ctx, database, order.ID)
	if !errors.Is(err, workorder.ErrIncompleteStaging) {
		t.Errorf("expected ErrIncompleteStaging, got %v", err)
	}

	stageAll(t, database, order)
	ready, err := MarkWorkOrderReady(ctx, database, order.ID)
	if err != nil {
		t.Fatalf("MarkWorkOrderReady: %v", err)
	}
	if ready.Status != model.WorkOrderStatusReady {
		t.Errorf("expected status 'ready', got %q", ready.Status)
	}

	// Staging is frozen once ready.
	_, err = SetItemStaged(ctx, database, order.ID, order.Items[0].ID, false)
	if !errors.Is(err, workorder.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestMarkReadyFromDraft(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	order := seedWorkOrder(t, database)

	_, err := MarkWorkOrderReady(ctx, database, order.ID)
	if !errors.Is(err, workorder.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestCheckoutFromReady(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	order := seedWorkOrder(t, database)

	stageAll(t, database, order)
	MarkWorkOrderReady(ctx, database, order.ID)

	user, _ := CreateUser(ctx, database, "tech", "hash", model.RoleUser)
	transaction, err := CheckoutWorkOrder(ctx, database, order.ID, &user.ID)
	if err != nil {
		t.Fatalf("CheckoutWorkOrder: %v", err)
	}
	if transaction.Reference == "" {
		t.Error("expected a non-empty transaction reference")
	}
	if transaction.ItemCount != 3 {
		t.Errorf("expected item count 3, got %d", transaction.ItemCount)
	}
	if transaction.Custodian != "Ana Novak" {
		t.Errorf("expected custodian snapshot, got %q", transaction.Custodian)
	}
	if transaction.CreatedByName != "tech" {
		t.Errorf("expected created-by name to be joined, got %q", transaction.CreatedByName)
	}

	got, _ := GetWorkOrder(ctx, database, order.ID)
	if got.Status != model.WorkOrderStatusCheckedOut {
		t.Errorf("expected status 'checked_out', got %q", got.Status)
	}

	// Asset lines are flipped to checked_out.
	assets, _ := ListAssets(ctx, database, model.AssetStatusCheckedOut)
	if len(assets) != 2 {
		t.Errorf("expected 2 checked-out assets, got %d", len(assets))
	}

	// Checked-out orders are terminal.
	if _, err := CheckoutWorkOrder(ctx, database, order.ID, nil); !errors.Is(err, workorder.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition on repeat checkout, got %v", err)
	}
}

func TestCheckoutDirectlyFromInProgress(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	order := seedWorkOrder(t, database)

	stageAll(t, database, order)
	transaction, err := CheckoutWorkOrder(ctx, database, order.ID, nil)
	if err != nil {
		t.Fatalf("CheckoutWorkOrder: %v", err)
	}
	if transaction == nil {
		t.Fatal("expected a transaction")
	}
}

func TestCheckoutIncomplete(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	order := seedWorkOrder(t, database)

	SetItemStaged(ctx, database, order.ID, order.Items[0].ID, true)
	_, err := CheckoutWorkOrder(ctx, database, order.ID, nil)
	if !errors.Is(err, workorder.ErrIncompleteStaging) {
		t.Errorf("expected ErrIncompleteStaging, got %v", err)
	}

	// Nothing was recorded.
	transactions, _ := ListTransactions(ctx, database, order.ID)
	if len(transactions) != 0 {
		t.Errorf("expected 0 transactions after refused checkout, got %d", len(transactions))
	}
}

func TestCancelWorkOrder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	order := seedWorkOrder(t, database)

	cancelled, err := CancelWorkOrder(ctx, database, order.ID)
	if err != nil {
		t.Fatalf("CancelWorkOrder: %v", err)
	}
	if cancelled.Status != model.WorkOrderStatusCancelled {
		t.Errorf("expected status 'cancelled', got %q", cancelled.Status)
	}

	// Cancelled orders cannot be staged or cancelled again.
	if _, err := SetItemStaged(ctx, database, order.ID, order.Items[0].ID, true); !errors.Is(err, workorder.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
	if _, err := CancelWorkOrder(ctx, database, order.ID); !errors.Is(err, workorder.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestStageByScan(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	order := seedWorkOrder(t, database)

	updated, item, err := StageByScan(ctx, database, order.ID, "BC-001")
	if err != nil {
		t.Fatalf("StageByScan: %v", err)
	}
	if !item.IsStaged {
		t.Error("expected scanned item to be staged")
	}
	if updated.Status != model.WorkOrderStatusInProgress {
		t.Errorf("expected status 'in_progress', got %q", updated.Status)
	}

	// Serials resolve like barcodes.
	if _, _, err := StageByScan(ctx, database, order.ID, "SN-002"); err != nil {
		t.Fatalf("StageByScan by serial: %v", err)
	}

	// Kit barcodes stage the kit line.
	_, kitItem, err := StageByScan(ctx, database, order.ID, "KIT-001")
	if err != nil {
		t.Fatalf("StageByScan by kit barcode: %v", err)
	}
	if kitItem.KitID == nil {
		t.Error("expected the kit line to be staged")
	}

	// Rescanning an already-staged item is a no-op.
	if _, _, err := StageByScan(ctx, database, order.ID, "BC-001"); err != nil {
		t.Errorf("expected rescan to be a no-op, got %v", err)
	}
}

func TestStageByScanUnknownCode(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	order := seedWorkOrder(t, database)

	_, _, err := StageByScan(ctx, database, order.ID, "NOPE")
	if !errors.Is(err, workorder.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestStageByScanForeignAsset(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	order := seedWorkOrder(t, database)

	// An asset that exists but is not on the order.
	CreateAsset(ctx, database, "Other Mic", "SN-X", "BC-X", "", "")

	_, _, err := StageByScan(ctx, database, order.ID, "BC-X")
	if !errors.Is(err, workorder.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestUpdateWorkOrderFrozenAfterReady(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	order := seedWorkOrder(t, database)

	stageAll(t, database, order)
	MarkWorkOrderReady(ctx, database, order.ID)

	_, err := UpdateWorkOrder(ctx, database, order.ID, WorkOrderParams{
		Title:              "Renamed",
		CustodianContactID: order.CustodianContactID,
	})
	if !errors.Is(err, workorder.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}

	if _, err := AddWorkOrderItem(ctx, database, order.ID, nil, nil, 1); err == nil {
		t.Error("expected item validation error")
	}
	if err := RemoveWorkOrderItem(ctx, database, order.ID, order.Items[0].ID); !errors.Is(err, workorder.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestDeleteWorkOrder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	order := seedWorkOrder(t, database)

	// Fresh draft with nothing staged can be deleted.
	if err := DeleteWorkOrder(ctx, database, order.ID); err != nil {
		t.Fatalf("DeleteWorkOrder: %v", err)
	}
	got, _ := GetWorkOrder(ctx, database, order.ID)
	if got != nil {
		t.Error("expected work order to be gone")
	}

	// In-progress orders cannot be deleted.
	order = seedWorkOrder(t, database)
	SetItemStaged(ctx, database, order.ID, order.Items[0].ID, true)
	if err := DeleteWorkOrder(ctx, database, order.ID); !errors.Is(err, workorder.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}

	// Cancelled orders can.
	CancelWorkOrder(ctx, database, order.ID)
	if err := DeleteWorkOrder(ctx, database, order.ID); err != nil {
		t.Errorf("DeleteWorkOrder after cancel: %v", err)
	}
}

func TestListWorkOrdersWithProgress(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	order := seedWorkOrder(t, database)
	SetItemStaged(ctx, database, order.ID, order.Items[0].ID, true)

	all, err := ListWorkOrders(ctx, database, "")
	if err != nil {
		t.Fatalf("ListWorkOrders: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 work order, got %d", len(all))
	}
	if all[0].Progress.Staged != 1 || all[0].Progress.Total != 3 || all[0].Progress.Percent != 33 {
		t.Errorf("unexpected progress: %+v", all[0].Progress)
	}

	drafts, _ := ListWorkOrders(ctx, database, model.WorkOrderStatusDraft)
	if len(drafts) != 0 {
		t.Errorf("expected 0 drafts, got %d", len(drafts))
	}
	inProgress, _ := ListWorkOrders(ctx, database, model.WorkOrderStatusInProgress)
	if len(inProgress) != 1 {
		t.Errorf("expected 1 in-progress order, got %d", len(inProgress))
	}

	if _, err := ListWorkOrders(ctx, database, "bogus"); err == nil {
		t.Error("expected error for unknown status filter")
	}
}
