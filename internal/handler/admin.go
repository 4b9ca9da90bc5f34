package handler

import (
	"net/http"
	"strconv"

	"github.com/educast/studio/internal/service"
)

// AdminHandler exposes the dashboard endpoints. The RequireAdmin
// middleware guards every route here.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// HandleListUsers returns all accounts, newest first.
//
// GET /api/admin/users?page=&per_page=
func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	users, meta, err := h.admin.ListUsers(r.Context(), page, perPage)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Users retrieved successfully", map[string]any{
		"users":      users,
		"pagination": meta,
	})
}

// HandleListPodcasts returns podcasts across all users with owner
// info attached.
//
// GET /api/admin/podcasts?status=&page=&per_page=
func (h *AdminHandler) HandleListPodcasts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))

	podcasts, meta, err := h.admin.ListPodcasts(r.Context(), q.Get("status"), page, perPage)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Podcasts retrieved successfully", map[string]any{
		"podcasts":   podcasts,
		"pagination": meta,
	})
}

// HandleStats returns the dashboard summary numbers.
//
// GET /api/admin/stats
func (h *AdminHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.GetStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Statistics retrieved successfully", map[string]any{
		"stats": stats,
	})
}
