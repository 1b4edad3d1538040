package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/pickleball-portal/middleware"
	"github.com/Dosada05/pickleball-portal/services"
	"github.com/Dosada05/pickleball-portal/views"
)

type AuthHandler struct {
	authService services.AuthService
	sessions    *middleware.SessionManager
	renderer    *views.Renderer
	logger      *slog.Logger
}

func NewAuthHandler(authService services.AuthService, sessions *middleware.SessionManager, renderer *views.Renderer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		renderer:    renderer,
		logger:      logger,
	}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", views.PageData{})
}

func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "register.html", views.PageData{})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, "login.html", views.PageData{Error: "invalid form submission"})
		return
	}

	user, err := h.authService.Login(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		h.logger.Info("login rejected", slog.Any("error", err))
		h.render(w, "login.html", views.PageData{Error: "invalid username or password"})
		return
	}

	if err := h.sessions.IssueCookie(w, user); err != nil {
		h.logger.Error("failed to issue session cookie", slog.Any("error", err))
		h.render(w, "login.html", views.PageData{Error: "something went wrong, please try again"})
		return
	}

	http.Redirect(w, r, "/home", http.StatusFound)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, "register.html", views.PageData{Error: "invalid form submission"})
		return
	}

	_, err := h.authService.Register(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		h.render(w, "register.html", views.PageData{Error: err.Error()})
		return
	}

	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *AuthHandler) render(w http.ResponseWriter, name string, data views.PageData) {
	if err := h.renderer.Render(w, name, data); err != nil {
		h.logger.Error("failed to render view", slog.String("view", name), slog.Any("error", err))
	}
}
