package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"stagehand/internal/model"
	"stagehand/internal/store"
)

// TransactionsHandler handles checkout transaction endpoints.
type TransactionsHandler struct {
	DB *sql.DB
}

// List handles GET /api/transactions, optionally filtered by work order.
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	var workOrderID int64
	if s := r.URL.Query().Get("work_order_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid work_order_id")
			return
		}
		workOrderID = id
	}

	transactions, err := store.ListTransactions(r.Context(), h.DB, workOrderID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	if transactions == nil {
		transactions = []model.Transaction{}
	}
	jsonResponse(w, http.StatusOK, transactions)
}

// Get handles GET /api/transactions/{id}.
func (h *TransactionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	transaction, err := store.GetTransaction(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get transaction")
		return
	}
	if transaction == nil {
		jsonError(w, http.StatusNotFound, "transaction not found")
		return
	}
	jsonResponse(w, http.StatusOK, transaction)
}
