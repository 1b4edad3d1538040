package handlers

import (
	"net/http"

	"github.com/Dosada05/pickleball-portal/middleware"
	"github.com/Dosada05/pickleball-portal/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// TournamentData serves GET /api/tournament-data: the caller's registrations
// grouped with their players, optionally filtered by category.
func (h *DashboardHandler) TournamentData(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		serverErrorResponse(w, err)
		return
	}

	data, err := h.dashboardService.UserRegistrations(r.Context(), userID, r.URL.Query().Get("category"))
	if err != nil {
		databaseErrorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"success": true, "data": data})
}

// AdminTournamentData serves GET /api/admin-tournament-data: every
// registration across all users, with the owning username.
func (h *DashboardHandler) AdminTournamentData(w http.ResponseWriter, r *http.Request) {
	data, err := h.dashboardService.AllRegistrations(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		databaseErrorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"success": true, "data": data})
}

// Test is the unauthenticated health probe.
func (h *DashboardHandler) Test(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, jsonResponse{"success": true, "message": "API test route working"})
}
