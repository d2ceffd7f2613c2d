package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"stagehand/internal/store"
)

// SettingsHandler handles org-wide settings endpoints.
type SettingsHandler struct {
	DB *sql.DB
}

type policyRequest struct {
	Policy string `json:"policy"`
}

// GetPolicy handles GET /api/settings/verification-policy.
func (h *SettingsHandler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	policy, err := store.GetVerificationPolicy(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get verification policy")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"policy": policy})
}

// SetPolicy handles PUT /api/settings/verification-policy.
func (h *SettingsHandler) SetPolicy(w http.ResponseWriter, r *http.Request) {
	var req policyRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := store.SetVerificationPolicy(r.Context(), h.DB, req.Policy); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	slog.Info("verification policy changed", "policy", req.Policy, "by", GetClaims(r.Context()).Username)
	jsonResponse(w, http.StatusOK, map[string]string{"policy": req.Policy})
}
