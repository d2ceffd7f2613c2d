// Package workorder implements the staging lifecycle for equipment
// work orders: status transitions, per-item staging, scan matching,
// progress, and checkout gating. All state lives in the caller's
// WorkOrder snapshot; persistence and policy belong to the caller.
package workorder

import (
	"context"
	"errors"
	"fmt"

	"stagehand/internal/model"
)

// Sentinel errors, classified with errors.Is at call sites.
var (
	// ErrInvalidTransition marks a status change that is not legal
	// from the work order's current status.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrIncompleteStaging marks a ready/checkout attempt before
	// every item is staged.
	ErrIncompleteStaging = errors.New("not all items staged")
	// ErrItemNotFound marks a scan or item reference that resolved to
	// nothing within the work order.
	ErrItemNotFound = errors.New("item not found in work order")
	// ErrConflict marks a mutation the server rejected because the
	// caller's snapshot had drifted; the caller should refetch.
	ErrConflict = errors.New("state conflict")
	// ErrUnavailable marks a transport failure talking to a
	// collaborator; the action can be retried as-is.
	ErrUnavailable = errors.New("service unavailable")
)

var transitions = map[string]map[string]bool{
	model.WorkOrderStatusDraft: {
		model.WorkOrderStatusInProgress: true,
		model.WorkOrderStatusCancelled:  true,
	},
	model.WorkOrderStatusInProgress: {
		model.WorkOrderStatusReady:      true,
		model.WorkOrderStatusCheckedOut: true,
		model.WorkOrderStatusCancelled:  true,
	},
	model.WorkOrderStatusReady: {
		model.WorkOrderStatusCheckedOut: true,
	},
	model.WorkOrderStatusCheckedOut: {},
	model.WorkOrderStatusCancelled:  {},
}

// CanTransition reports whether a work order may move from one status
// to another.
func CanTransition(from, to string) bool {
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	return allowed[to]
}

// Terminal reports whether a status accepts no further transitions.
func Terminal(status string) bool {
	return status == model.WorkOrderStatusCheckedOut || status == model.WorkOrderStatusCancelled
}

// Stageable reports whether items may be staged or unstaged while the
// work order has this status.
func Stageable(status string) bool {
	return status == model.WorkOrderStatusDraft || status == model.WorkOrderStatusInProgress
}

// ValidStatus reports whether s is a known work order status.
func ValidStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// StartProgress moves a draft work order to in_progress. Calling it on
// a work order that already left draft is a no-op; callers invoke it
// defensively before staging actions.
func StartProgress(wo *model.WorkOrder) {
	if wo.Status == model.WorkOrderStatusDraft {
		wo.Status = model.WorkOrderStatusInProgress
	}
}

// FindItem returns the item with the given ID, or nil.
func FindItem(wo *model.WorkOrder, itemID int64) *model.WorkOrderItem {
	for i := range wo.Items {
		if wo.Items[i].ID == itemID {
			return &wo.Items[i]
		}
	}
	return nil
}

// StageItem sets an item's staged flag. The first staging action on a
// draft work order moves it to in_progress. Verification policy is the
// caller's concern: StageItem trusts that a scan already happened when
// one was required.
func StageItem(wo *model.WorkOrder, itemID int64, staged bool) error {
	if !Stageable(wo.Status) {
		return fmt.Errorf("stage item in status %q: %w", wo.Status, ErrInvalidTransition)
	}
	item := FindItem(wo, itemID)
	if item == nil {
		return fmt.Errorf("item %d: %w", itemID, ErrItemNotFound)
	}
	StartProgress(wo)
	item.IsStaged = staged
	return nil
}

// ScanResolver resolves a scanned barcode/QR code to an asset or kit.
type ScanResolver interface {
	ResolveScan(ctx context.Context, code string) (model.ScanIdentity, error)
}

// StageByScan resolves a scanned code and stages the matching item.
// A code that resolves to nothing, or to equipment that is not on this
// work order, fails with ErrItemNotFound and leaves all items as they
// were. Scanning an already-staged item again is a no-op.
func StageByScan(ctx context.Context, wo *model.WorkOrder, code string, resolver ScanResolver) (*model.WorkOrderItem, error) {
	if !Stageable(wo.Status) {
		return nil, fmt.Errorf("stage by scan in status %q: %w", wo.Status, ErrInvalidTransition)
	}

	identity, err := resolver.ResolveScan(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("resolve scan %q: %w", code, err)
	}

	item := matchScan(wo, identity)
	if item == nil {
		return nil, fmt.Errorf("scan %q resolved outside this work order: %w", code, ErrItemNotFound)
	}
	if item.IsStaged {
		return item, nil
	}
	if err := StageItem(wo, item.ID, true); err != nil {
		return nil, err
	}
	return item, nil
}

func matchScan(wo *model.WorkOrder, identity model.ScanIdentity) *model.WorkOrderItem {
	for i := range wo.Items {
		item := &wo.Items[i]
		if identity.AssetID != 0 && item.AssetID != nil && *item.AssetID == identity.AssetID {
			return item
		}
		if identity.KitID != 0 && item.KitID != nil && *item.KitID == identity.KitID {
			return item
		}
	}
	return nil
}

// MarkReady transitions a fully staged in_progress work order to ready.
func MarkReady(wo *model.WorkOrder) error {
	if wo.Status != model.WorkOrderStatusInProgress {
		return fmt.Errorf("mark ready in status %q: %w", wo.Status, ErrInvalidTransition)
	}
	p := ComputeProgress(wo)
	if p.Total == 0 || p.Staged < p.Total {
		return fmt.Errorf("mark ready with %d of %d items staged: %w", p.Staged, p.Total, ErrIncompleteStaging)
	}
	wo.Status = model.WorkOrderStatusReady
	return nil
}

// CanCheckout reports whether checkout is currently permitted: from
// ready, or directly from in_progress once every item is staged.
func CanCheckout(wo *model.WorkOrder) error {
	switch wo.Status {
	case model.WorkOrderStatusReady:
		return nil
	case model.WorkOrderStatusInProgress:
		p := ComputeProgress(wo)
		if p.Total == 0 || p.Staged < p.Total {
			return fmt.Errorf("checkout with %d of %d items staged: %w", p.Staged, p.Total, ErrIncompleteStaging)
		}
		return nil
	default:
		return fmt.Errorf("checkout in status %q: %w", wo.Status, ErrInvalidTransition)
	}
}

// TransactionRecorder records a checkout with the backing service.
type TransactionRecorder interface {
	RecordCheckout(ctx context.Context, wo *model.WorkOrder) (*model.Transaction, error)
}

// Checkout finalizes a work order. The transaction is recorded first;
// only on success does the snapshot transition to checked_out, so a
// collaborator failure leaves the status untouched and the caller can
// retry the same action.
func Checkout(ctx context.Context, wo *model.WorkOrder, recorder TransactionRecorder) (*model.Transaction, error) {
	if err := CanCheckout(wo); err != nil {
		return nil, err
	}
	txn, err := recorder.RecordCheckout(ctx, wo)
	if err != nil {
		return nil, err
	}
	wo.Status = model.WorkOrderStatusCheckedOut
	return txn, nil
}

// Cancel cancels a work order. Legal only from draft or in_progress;
// a ready order would have to be reverted first, which is not
// supported.
func Cancel(wo *model.WorkOrder) error {
	if !CanTransition(wo.Status, model.WorkOrderStatusCancelled) {
		return fmt.Errorf("cancel in status %q: %w", wo.Status, ErrInvalidTransition)
	}
	wo.Status = model.WorkOrderStatusCancelled
	return nil
}

// ComputeProgress counts staged items. An empty work order reports 0%,
// never a division by zero.
func ComputeProgress(wo *model.WorkOrder) model.Progress {
	p := model.Progress{Total: len(wo.Items)}
	for i := range wo.Items {
		if wo.Items[i].IsStaged {
			p.Staged++
		}
	}
	if p.Total > 0 {
		p.Percent = p.Staged * 100 / p.Total
	}
	return p
}

// Deletable reports whether a work order may be deleted: cancelled
// orders, and drafts with nothing staged yet.
func Deletable(wo *model.WorkOrder) bool {
	if wo.Status == model.WorkOrderStatusCancelled {
		return true
	}
	return wo.Status == model.WorkOrderStatusDraft && ComputeProgress(wo).Staged == 0
}
