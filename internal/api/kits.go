package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"stagehand/internal/labels"
	"stagehand/internal/model"
	"stagehand/internal/store"
)

// KitsHandler handles kit CRUD and label endpoints.
type KitsHandler struct {
	DB *sql.DB
}

type kitRequest struct {
	Name        string `json:"name"`
	Barcode     string `json:"barcode"`
	Description string `json:"description"`
}

// List handles GET /api/kits.
func (h *KitsHandler) List(w http.ResponseWriter, r *http.Request) {
	kits, err := store.ListKits(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list kits")
		return
	}
	if kits == nil {
		kits = []model.Kit{}
	}
	jsonResponse(w, http.StatusOK, kits)
}

// Create handles POST /api/kits.
func (h *KitsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req kitRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	kit, err := store.CreateKit(r.Context(), h.DB, req.Name, req.Barcode, req.Description)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonResponse(w, http.StatusCreated, kit)
}

// Get handles GET /api/kits/{id}.
func (h *KitsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid kit id")
		return
	}

	kit, err := store.GetKit(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get kit")
		return
	}
	if kit == nil {
		jsonError(w, http.StatusNotFound, "kit not found")
		return
	}
	jsonResponse(w, http.StatusOK, kit)
}

// Update handles PUT /api/kits/{id}.
func (h *KitsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid kit id")
		return
	}

	var req kitRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	kit, err := store.UpdateKit(r.Context(), h.DB, id, req.Name, req.Barcode, req.Description)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if kit == nil {
		jsonError(w, http.StatusNotFound, "kit not found")
		return
	}
	jsonResponse(w, http.StatusOK, kit)
}

// Delete handles DELETE /api/kits/{id}.
func (h *KitsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid kit id")
		return
	}

	if err := store.DeleteKit(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusConflict, err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "kit deleted"})
}

// Label handles GET /api/kits/{id}/label.
func (h *KitsHandler) Label(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid kit id")
		return
	}

	kit, err := store.GetKit(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get kit")
		return
	}
	if kit == nil {
		jsonError(w, http.StatusNotFound, "kit not found")
		return
	}

	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	png, err := labels.QRPNG(kit.Barcode, size)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to render label")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
