package api

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"stagehand/internal/model"
	"stagehand/internal/store"
	"stagehand/internal/workorder"
)

// StagingHandler handles the staging lifecycle of a work order:
// per-item staging, scan staging, ready, checkout and cancellation.
type StagingHandler struct {
	DB *sql.DB
}

type setStagedRequest struct {
	Staged bool `json:"staged"`
}

type scanRequest struct {
	Code string `json:"code"`
}

func orderResponse(order *model.WorkOrder) map[string]any {
	return map[string]any{
		"work_order": order,
		"progress":   workorder.ComputeProgress(order),
	}
}

// SetItemStaged handles PUT /api/workorders/{id}/items/{itemID}/staged.
func (h *StagingHandler) SetItemStaged(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid work order id")
		return
	}
	itemID, err := strconv.ParseInt(r.PathValue("itemID"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req setStagedRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := store.SetItemStaged(r.Context(), h.DB, id, itemID, req.Staged)
	if err != nil {
		lifecycleError(w, err)
		return
	}
	if order == nil {
		jsonError(w, http.StatusNotFound, "work order not found")
		return
	}
	jsonResponse(w, http.StatusOK, orderResponse(order))
}

// Scan handles POST /api/workorders/{id}/scan, staging the item whose
// asset or kit matches the scanned code.
func (h *StagingHandler) Scan(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid work order id")
		return
	}

	var req scanRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Code == "" {
		jsonError(w, http.StatusBadRequest, "code required")
		return
	}

	order, item, err := store.StageByScan(r.Context(), h.DB, id, req.Code)
	if err != nil {
		lifecycleError(w, err)
		return
	}
	if order == nil {
		jsonError(w, http.StatusNotFound, "work order not found")
		return
	}

	resp := orderResponse(order)
	resp["item"] = item
	jsonResponse(w, http.StatusOK, resp)
}

// Ready handles POST /api/workorders/{id}/ready.
func (h *StagingHandler) Ready(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid work order id")
		return
	}

	order, err := store.MarkWorkOrderReady(r.Context(), h.DB, id)
	if err != nil {
		lifecycleError(w, err)
		return
	}
	if order == nil {
		jsonError(w, http.StatusNotFound, "work order not found")
		return
	}

	slog.Info("work order ready", "work_order", id)
	jsonResponse(w, http.StatusOK, orderResponse(order))
}

// checkoutRecorder persists checkouts for the staging engine.
type checkoutRecorder struct {
	db        *sql.DB
	createdBy *int64
}

func (c checkoutRecorder) RecordCheckout(ctx context.Context, wo *model.WorkOrder) (*model.Transaction, error) {
	txn, err := store.CheckoutWorkOrder(ctx, c.db, wo.ID, c.createdBy)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, fmt.Errorf("work order %d disappeared during checkout: %w", wo.ID, workorder.ErrConflict)
	}
	return txn, nil
}

// Checkout handles POST /api/workorders/{id}/checkout. The snapshot is
// gated first, then the store re-validates inside its transaction, so
// a stale client sees a conflict rather than a double checkout.
func (h *StagingHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid work order id")
		return
	}

	order, err := store.GetWorkOrder(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get work order")
		return
	}
	if order == nil {
		jsonError(w, http.StatusNotFound, "work order not found")
		return
	}

	var createdBy *int64
	if claims := GetClaims(r.Context()); claims != nil {
		createdBy = &claims.UserID
	}

	txn, err := workorder.Checkout(r.Context(), order, checkoutRecorder{db: h.DB, createdBy: createdBy})
	if err != nil {
		lifecycleError(w, err)
		return
	}

	slog.Info("work order checked out",
		"work_order", id,
		"reference", txn.Reference,
		"items", txn.ItemCount,
	)
	resp := orderResponse(order)
	resp["transaction"] = txn
	jsonResponse(w, http.StatusOK, resp)
}

// Cancel handles POST /api/workorders/{id}/cancel.
func (h *StagingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid work order id")
		return
	}

	order, err := store.CancelWorkOrder(r.Context(), h.DB, id)
	if err != nil {
		lifecycleError(w, err)
		return
	}
	if order == nil {
		jsonError(w, http.StatusNotFound, "work order not found")
		return
	}

	slog.Info("work order cancelled", "work_order", id)
	jsonResponse(w, http.StatusOK, orderResponse(order))
}
