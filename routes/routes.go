package routes

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/pickleball-portal/handlers"
	"github.com/Dosada05/pickleball-portal/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Views        *handlers.ViewHandler
	Registration *handlers.RegistrationHandler
	Dashboard    *handlers.DashboardHandler
	Tournament   *handlers.TournamentHandler
	Live         *handlers.LiveHandler
}

// SetupRoutes assembles the portal's full HTTP surface on the given router.
// uploadDir is served under /uploads when non-empty (the local storage
// driver); the R2 driver serves avatars from its own public base URL.
func SetupRoutes(
	router *chi.Mux,
	sessions *middleware.SessionManager,
	h Handlers,
	uploadDir string,
	logger *slog.Logger,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(middleware.Recoverer(logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	// Static assets and uploaded avatars.
	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("public/static"))))
	if uploadDir != "" {
		router.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))
	}

	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/static/swagger.json"),
	))

	// Public routes. The root redirect is reachable anonymously; the /home
	// target it points at is what carries the session gate.
	router.Get("/", h.Views.Root)
	router.Get("/api/test", h.Dashboard.Test)
	router.Get("/login", h.Auth.LoginPage)
	router.Post("/login", h.Auth.Login)
	router.Get("/register", h.Auth.RegisterPage)
	router.Post("/register", h.Auth.Register)
	router.Get("/logout", h.Auth.Logout)

	// Tournament metadata, delegated route group.
	router.Route("/tournament", func(r chi.Router) {
		r.Get("/info", h.Tournament.Info)
		r.Get("/categories", h.Tournament.Categories)
	})

	// Session-gated routes.
	router.Group(func(r chi.Router) {
		r.Use(sessions.RequireUser)

		r.Get("/home", h.Views.Home)
		r.Get("/form", h.Views.Form)
		r.Get("/sidebar", h.Views.Sidebar)
		r.Get("/dstd_user", h.Views.UserDashboard)

		r.Get("/api/tournament-data", h.Dashboard.TournamentData)
		r.Post("/api/add-player", h.Registration.AddPlayer)
		r.Post("/api/update-player", h.Registration.UpdatePlayer)

		// Admin-only routes.
		r.Group(func(r chi.Router) {
			r.Use(sessions.RequireAdmin)

			r.Get("/dstd_admin", h.Views.AdminDashboard)
			r.Get("/api/admin-tournament-data", h.Dashboard.AdminTournamentData)
			r.Get("/ws/registrations", h.Live.ServeWs)
		})
	})
}
