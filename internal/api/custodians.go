package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"stagehand/internal/model"
	"stagehand/internal/store"
)

// ContactsHandler handles contact custodian endpoints.
type ContactsHandler struct {
	DB *sql.DB
}

type contactRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// List handles GET /api/contacts.
func (h *ContactsHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := store.ListContacts(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list contacts")
		return
	}
	if contacts == nil {
		contacts = []model.Contact{}
	}
	jsonResponse(w, http.StatusOK, contacts)
}

// Create handles POST /api/contacts.
func (h *ContactsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	contact, err := store.CreateContact(r.Context(), h.DB, req.Name, req.Email, req.Phone)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonResponse(w, http.StatusCreated, contact)
}

// Get handles GET /api/contacts/{id}.
func (h *ContactsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid contact id")
		return
	}

	contact, err := store.GetContact(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get contact")
		return
	}
	if contact == nil {
		jsonError(w, http.StatusNotFound, "contact not found")
		return
	}
	jsonResponse(w, http.StatusOK, contact)
}

// Update handles PUT /api/contacts/{id}.
func (h *ContactsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid contact id")
		return
	}

	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	contact, err := store.UpdateContact(r.Context(), h.DB, id, req.Name, req.Email, req.Phone)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if contact == nil {
		jsonError(w, http.StatusNotFound, "contact not found")
		return
	}
	jsonResponse(w, http.StatusOK, contact)
}

// Delete handles DELETE /api/contacts/{id}.
func (h *ContactsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid contact id")
		return
	}

	if err := store.DeleteContact(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusConflict, err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "contact deleted"})
}

// ProjectsHandler handles project custodian endpoints.
type ProjectsHandler struct {
	DB *sql.DB
}

type projectRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// List handles GET /api/projects.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := store.ListProjects(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}
	if projects == nil {
		projects = []model.Project{}
	}
	jsonResponse(w, http.StatusOK, projects)
}

// Create handles POST /api/projects.
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	project, err := store.CreateProject(r.Context(), h.DB, req.Name, req.Code)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonResponse(w, http.StatusCreated, project)
}

// Get handles GET /api/projects/{id}.
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	project, err := store.GetProject(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get project")
		return
	}
	if project == nil {
		jsonError(w, http.StatusNotFound, "project not found")
		return
	}
	jsonResponse(w, http.StatusOK, project)
}

// Update handles PUT /api/projects/{id}.
func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	var req projectRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	project, err := store.UpdateProject(r.Context(), h.DB, id, req.Name, req.Code)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if project == nil {
		jsonError(w, http.StatusNotFound, "project not found")
		return
	}
	jsonResponse(w, http.StatusOK, project)
}

// Delete handles DELETE /api/projects/{id}.
func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	if err := store.DeleteProject(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusConflict, err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "project deleted"})
}
