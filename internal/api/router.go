package api

import (
	"database/sql"
	"net/http"

	"stagehand/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	contactsHandler := &ContactsHandler{DB: db}
	projectsHandler := &ProjectsHandler{DB: db}
	assetsHandler := &AssetsHandler{DB: db}
	kitsHandler := &KitsHandler{DB: db}
	workOrdersHandler := &WorkOrdersHandler{DB: db}
	stagingHandler := &StagingHandler{DB: db}
	transactionsHandler := &TransactionsHandler{DB: db}
	settingsHandler := &SettingsHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireManager := RequireRole(model.RoleManager)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Contacts and projects: read (all roles), write (manager+).
	mux.Handle("GET /api/contacts", authMW(http.HandlerFunc(contactsHandler.List)))
	mux.Handle("POST /api/contacts", authMW(requireManager(http.HandlerFunc(contactsHandler.Create))))
	mux.Handle("GET /api/contacts/{id}", authMW(http.HandlerFunc(contactsHandler.Get)))
	mux.Handle("PUT /api/contacts/{id}", authMW(requireManager(http.HandlerFunc(contactsHandler.Update))))
	mux.Handle("DELETE /api/contacts/{id}", authMW(requireManager(http.HandlerFunc(contactsHandler.Delete))))

	mux.Handle("GET /api/projects", authMW(http.HandlerFunc(projectsHandler.List)))
	mux.Handle("POST /api/projects", authMW(requireManager(http.HandlerFunc(projectsHandler.Create))))
	mux.Handle("GET /api/projects/{id}", authMW(http.HandlerFunc(projectsHandler.Get)))
	mux.Handle("PUT /api/projects/{id}", authMW(requireManager(http.HandlerFunc(projectsHandler.Update))))
	mux.Handle("DELETE /api/projects/{id}", authMW(requireManager(http.HandlerFunc(projectsHandler.Delete))))

	// Assets: read (all roles), write (manager+).
	mux.Handle("GET /api/assets", authMW(http.HandlerFunc(assetsHandler.List)))
	mux.Handle("POST /api/assets", authMW(requireManager(http.HandlerFunc(assetsHandler.Create))))
	mux.Handle("GET /api/assets/{id}", authMW(http.HandlerFunc(assetsHandler.Get)))
	mux.Handle("PUT /api/assets/{id}", authMW(requireManager(http.HandlerFunc(assetsHandler.Update))))
	mux.Handle("DELETE /api/assets/{id}", authMW(requireManager(http.HandlerFunc(assetsHandler.Delete))))
	mux.Handle("PUT /api/assets/{id}/photo", authMW(requireManager(http.HandlerFunc(assetsHandler.UploadPhoto))))
	mux.Handle("GET /api/assets/{id}/photo", authMW(http.HandlerFunc(assetsHandler.GetPhoto)))
	mux.Handle("GET /api/assets/{id}/label", authMW(http.HandlerFunc(assetsHandler.Label)))

	// Kits: read (all roles), write (manager+).
	mux.Handle("GET /api/kits", authMW(http.HandlerFunc(kitsHandler.List)))
	mux.Handle("POST /api/kits", authMW(requireManager(http.HandlerFunc(kitsHandler.Create))))
	mux.Handle("GET /api/kits/{id}", authMW(http.HandlerFunc(kitsHandler.Get)))
	mux.Handle("PUT /api/kits/{id}", authMW(requireManager(http.HandlerFunc(kitsHandler.Update))))
	mux.Handle("DELETE /api/kits/{id}", authMW(requireManager(http.HandlerFunc(kitsHandler.Delete))))
	mux.Handle("GET /api/kits/{id}/label", authMW(http.HandlerFunc(kitsHandler.Label)))

	// Work orders: metadata writes (manager+), staging (all roles).
	mux.Handle("GET /api/workorders", authMW(http.HandlerFunc(workOrdersHandler.List)))
	mux.Handle("POST /api/workorders", authMW(requireManager(http.HandlerFunc(workOrdersHandler.Create))))
	mux.Handle("GET /api/workorders/{id}", authMW(http.HandlerFunc(workOrdersHandler.Get)))
	mux.Handle("PUT /api/workorders/{id}", authMW(requireManager(http.HandlerFunc(workOrdersHandler.Update))))
	mux.Handle("DELETE /api/workorders/{id}", authMW(requireManager(http.HandlerFunc(workOrdersHandler.Delete))))
	mux.Handle("POST /api/workorders/{id}/items", authMW(requireManager(http.HandlerFunc(workOrdersHandler.AddItem))))
	mux.Handle("DELETE /api/workorders/{id}/items/{itemID}", authMW(requireManager(http.HandlerFunc(workOrdersHandler.RemoveItem))))

	mux.Handle("PUT /api/workorders/{id}/items/{itemID}/staged", authMW(http.HandlerFunc(stagingHandler.SetItemStaged)))
	mux.Handle("POST /api/workorders/{id}/scan", authMW(http.HandlerFunc(stagingHandler.Scan)))
	mux.Handle("POST /api/workorders/{id}/ready", authMW(http.HandlerFunc(stagingHandler.Ready)))
	mux.Handle("POST /api/workorders/{id}/checkout", authMW(http.HandlerFunc(stagingHandler.Checkout)))
	mux.Handle("POST /api/workorders/{id}/cancel", authMW(http.HandlerFunc(stagingHandler.Cancel)))

	// Transactions (all roles, read only).
	mux.Handle("GET /api/transactions", authMW(http.HandlerFunc(transactionsHandler.List)))
	mux.Handle("GET /api/transactions/{id}", authMW(http.HandlerFunc(transactionsHandler.Get)))

	// Settings: read (all roles), write (admin only).
	mux.Handle("GET /api/settings/verification-policy", authMW(http.HandlerFunc(settingsHandler.GetPolicy)))
	mux.Handle("PUT /api/settings/verification-policy", authMW(requireAdmin(http.HandlerFunc(settingsHandler.SetPolicy))))

	return mux
}
