package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"stagehand/internal/store"
	"stagehand/internal/workorder"
)

// WorkOrdersHandler handles work order CRUD and item line endpoints.
type WorkOrdersHandler struct {
	DB *sql.DB
}

type workOrderRequest struct {
	Title              string  `json:"title"`
	CustodianUserID    *int64  `json:"custodian_user_id"`
	CustodianContactID *int64  `json:"custodian_contact_id"`
	CustodianProjectID *int64  `json:"custodian_project_id"`
	AssignedTo         *int64  `json:"assigned_to"`
	DueDate            *string `json:"due_date"`
	PickupDate         *string `json:"pickup_date"`
	ExpectedReturnDate *string `json:"expected_return_date"`
	Notes              string  `json:"notes"`
}

func (r workOrderRequest) params() store.WorkOrderParams {
	return store.WorkOrderParams{
		Title:              r.Title,
		CustodianUserID:    r.CustodianUserID,
		CustodianContactID: r.CustodianContactID,
		CustodianProjectID: r.CustodianProjectID,
		AssignedTo:         r.AssignedTo,
		DueDate:            r.DueDate,
		PickupDate:         r.PickupDate,
		ExpectedReturnDate: r.ExpectedReturnDate,
		Notes:              r.Notes,
	}
}

type addItemRequest struct {
	AssetID  *int64 `json:"asset_id"`
	KitID    *int64 `json:"kit_id"`
	Quantity int    `json:"quantity"`
}

// List handles GET /api/workorders.
func (h *WorkOrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	orders, err := store.ListWorkOrders(r.Context(), h.DB, status)
	if err != nil {
		if status != "" && !workorder.ValidStatus(status) {
			jsonError(w, http.StatusBadRequest, "invalid status")
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to list work orders")
		return
	}
	if orders == nil {
		orders = []store.WorkOrderSummary{}
	}
	jsonResponse(w, http.StatusOK, orders)
}

// Create handles POST /api/workorders.
func (h *WorkOrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req workOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := store.CreateWorkOrder(r.Context(), h.DB, req.params())
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonResponse(w, http.StatusCreated, order)
}

// Get handles GET /api/workorders/{id}, returning the work order with
// its items and staging progress.
func (h *WorkOrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	jsonResponse(w, http.StatusOK, map[string]any{
		"work_order": order,
		"progress":   workorder.ComputeProgress(order),
	})
}

// Update handles PUT /api/workorders/{id}.
func (h *WorkOrdersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid work order id")
		return
	}

	var req workOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := store.UpdateWorkOrder(r.Context(), h.DB, id, req.params())
	if err != nil {
		lifecycleError(w, err)
		return
	}
	if order == nil {
		jsonError(w, http.StatusNotFound, "work order not found")
		return
	}
	jsonResponse(w, http.StatusOK, order)
}

// Delete handles DELETE /api/workorders/{id}.
func (h *WorkOrdersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid work order id")
		return
	}

	if err := store.DeleteWorkOrder(r.Context(), h.DB, id); err != nil {
		lifecycleError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "work order deleted"})
}

// AddItem handles POST /api/workorders/{id}/items.
func (h *WorkOrdersHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid work order id")
		return
	}

	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if (req.AssetID != nil) == (req.KitID != nil) {
		jsonError(w, http.StatusBadRequest, "exactly one of asset_id or kit_id required")
		return
	}

	order, err := store.AddWorkOrderItem(r.Context(), h.DB, id, req.AssetID, req.KitID, req.Quantity)
	if err != nil {
		lifecycleError(w, err)
		return
	}
	if order == nil {
		jsonError(w, http.StatusNotFound, "work order not found")
		return
	}
	jsonResponse(w, http.StatusCreated, order)
}

// RemoveItem handles DELETE /api/workorders/{id}/items/{itemID}.
func (h *WorkOrdersHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
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

	if err := store.RemoveWorkOrderItem(r.Context(), h.DB, id, itemID); err != nil {
		lifecycleError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item removed"})
}
