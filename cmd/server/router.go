package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/lanternhq/lantern-api/internal/api"
	apimiddleware "github.com/lanternhq/lantern-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)
	r.Use(apimiddleware.RequestLogger)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.refreshTokens,
		app.jwtService,
		app.passwordVerifier,
		app.mailer,
	)
	dashboardHandler := api.NewDashboardHandler(app.userStore)
	systemHandler := api.NewSystemHandler(app.scheduler)

	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)
	rateLimiter := apimiddleware.NewRateLimiter(app.config.Server.RateLimitPerMinute)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public, rate limited)
		r.Group(func(r chi.Router) {
			r.Use(rateLimiter.Limit)
			r.Post("/auth/register", authHandler.Register)
			r.Post("/auth/login", authHandler.Login)
			r.Post("/auth/refresh", authHandler.RefreshToken)
			r.Post("/auth/logout", authHandler.Logout)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/dashboard", dashboardHandler.Get)
			r.Get("/system/tasks", systemHandler.Tasks)
		})
	})

	r.Get("/health", systemHandler.Health)

	return r
}
