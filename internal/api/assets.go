package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"stagehand/internal/imaging"
	"stagehand/internal/labels"
	"stagehand/internal/model"
	"stagehand/internal/store"
)

// AssetsHandler handles asset CRUD, photo and label endpoints.
type AssetsHandler struct {
	DB *sql.DB
}

type assetRequest struct {
	Name    string `json:"name"`
	Serial  string `json:"serial"`
	Barcode string `json:"barcode"`
	Status  string `json:"status"`
	Notes   string `json:"notes"`
}

// List handles GET /api/assets.
func (h *AssetsHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !model.ValidAssetStatus(status) {
		jsonError(w, http.StatusBadRequest, "invalid status")
		return
	}

	assets, err := store.ListAssets(r.Context(), h.DB, status)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list assets")
		return
	}
	if assets == nil {
		assets = []model.Asset{}
	}
	jsonResponse(w, http.StatusOK, assets)
}

// Create handles POST /api/assets.
func (h *AssetsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req assetRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	asset, err := store.CreateAsset(r.Context(), h.DB, req.Name, req.Serial, req.Barcode, req.Status, req.Notes)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonResponse(w, http.StatusCreated, asset)
}

// Get handles GET /api/assets/{id}.
func (h *AssetsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid asset id")
		return
	}

	asset, err := store.GetAsset(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get asset")
		return
	}
	if asset == nil {
		jsonError(w, http.StatusNotFound, "asset not found")
		return
	}
	jsonResponse(w, http.StatusOK, asset)
}

// Update handles PUT /api/assets/{id}.
func (h *AssetsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid asset id")
		return
	}

	var req assetRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status == "" {
		req.Status = model.AssetStatusAvailable
	}

	asset, err := store.UpdateAsset(r.Context(), h.DB, id, req.Name, req.Serial, req.Barcode, req.Status, req.Notes)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if asset == nil {
		jsonError(w, http.StatusNotFound, "asset not found")
		return
	}
	jsonResponse(w, http.StatusOK, asset)
}

// Delete handles DELETE /api/assets/{id}.
func (h *AssetsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid asset id")
		return
	}

	if err := store.DeleteAsset(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusConflict, err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "asset deleted"})
}

// UploadPhoto handles PUT /api/assets/{id}/photo.
func (h *AssetsHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid asset id")
		return
	}

	asset, err := store.GetAsset(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get asset")
		return
	}
	if asset == nil {
		jsonError(w, http.StatusNotFound, "asset not found")
		return
	}

	// Limit to 10 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return
	}
	defer file.Close()

	photo, err := imaging.Normalize(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetAssetPhoto(r.Context(), h.DB, id, photo.Data, photo.Thumb, photo.MIME); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save photo")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "photo uploaded"})
}

// GetPhoto handles GET /api/assets/{id}/photo. Pass ?thumb=1 for the
// list thumbnail.
func (h *AssetsHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid asset id")
		return
	}

	thumb := r.URL.Query().Get("thumb") == "1"
	data, mime, err := store.GetAssetPhoto(r.Context(), h.DB, id, thumb)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get photo")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

// Label handles GET /api/assets/{id}/label, rendering the asset's
// barcode as a printable QR PNG.
func (h *AssetsHandler) Label(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid asset id")
		return
	}

	asset, err := store.GetAsset(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get asset")
		return
	}
	if asset == nil {
		jsonError(w, http.StatusNotFound, "asset not found")
		return
	}

	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	png, err := labels.QRPNG(asset.Barcode, size)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to render label")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
