package handlers

import "net/http"

// TournamentHandler serves the /tournament/* group: static event metadata the
// registration form and dashboards rely on.
type TournamentHandler struct {
	eventName  string
	categories []string
}

func NewTournamentHandler() *TournamentHandler {
	return &TournamentHandler{
		eventName: "Pickleball Open",
		categories: []string{
			"mens_doubles",
			"womens_doubles",
			"mixed_doubles",
			"open",
		},
	}
}

func (h *TournamentHandler) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, jsonResponse{
		"success": true,
		"data": jsonResponse{
			"event_id":   1,
			"name":       h.eventName,
			"categories": h.categories,
		},
	})
}

func (h *TournamentHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, jsonResponse{"success": true, "data": h.categories})
}
