package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/pickleball-portal/middleware"
	"github.com/Dosada05/pickleball-portal/views"
)

// ViewHandler renders the session-gated pages, passing the session user to
// every template.
type ViewHandler struct {
	renderer *views.Renderer
	logger   *slog.Logger
}

func NewViewHandler(renderer *views.Renderer, logger *slog.Logger) *ViewHandler {
	return &ViewHandler{renderer: renderer, logger: logger}
}

func (h *ViewHandler) Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/home", http.StatusFound)
}

func (h *ViewHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "home.html")
}

func (h *ViewHandler) Form(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "form.html")
}

func (h *ViewHandler) Sidebar(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "sidebar.html")
}

func (h *ViewHandler) UserDashboard(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "dstd_user.html")
}

func (h *ViewHandler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "dstd_admin.html")
}

func (h *ViewHandler) renderPage(w http.ResponseWriter, r *http.Request, name string) {
	user, err := sessionUser(r)
	if err != nil {
		// The middleware guarantees a session on these routes.
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if err := h.renderer.Render(w, name, views.PageData{User: user}); err != nil {
		h.logger.Error("failed to render view", slog.String("view", name), slog.Any("error", err))
	}
}

func sessionUser(r *http.Request) (*views.SessionUser, error) {
	id, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		return nil, err
	}
	username, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		return nil, err
	}
	role, err := middleware.UserRoleFromContext(r.Context())
	if err != nil {
		return nil, err
	}
	return &views.SessionUser{ID: id, Username: username, Role: role}, nil
}
