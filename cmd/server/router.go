package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/storybridge/storybridge-api/internal/api"
	apiMiddleware "github.com/storybridge/storybridge-api/internal/api/middleware"
	"github.com/storybridge/storybridge-api/internal/domain"
)

// setupRouter creates and configures the application router with all routes
// and middleware. It accepts the application dependencies to create handlers
// and register routes. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(app.userService)
	storyHandler := api.NewStoryHandler(app.contentService)
	narrationHandler := api.NewNarrationHandler(app.contentService)
	adminHandler := api.NewAdminHandler(app.contentService)
	progressHandler := api.NewProgressHandler(app.progressService)
	analyticsHandler := api.NewAnalyticsHandler(app.analyticsService)
	audioHandler := api.NewAudioHandler(app.blobStore)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/login", authHandler.Login)

		// Published library (public)
		r.Get("/stories", storyHandler.ListPublished)
		r.Get("/stories/{storyID}", storyHandler.Get)
		r.Get("/audio/{audioID}", audioHandler.Get)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/me", authHandler.Me)

			// Story lifecycle endpoints (creator workspace)
			r.Post("/stories", storyHandler.Create)
			r.Get("/stories/mine", storyHandler.ListMine)
			r.Put("/stories/{storyID}", storyHandler.Update)
			r.Delete("/stories/{storyID}", storyHandler.Delete)
			r.Post("/stories/{storyID}/submit", storyHandler.Submit)

			// Narration lifecycle endpoints (narrator workspace)
			r.Post("/narrations", narrationHandler.Create)
			r.Get("/narrations/mine", narrationHandler.ListMine)
			r.Put("/narrations/{narrationID}", narrationHandler.Update)
			r.Delete("/narrations/{narrationID}", narrationHandler.Delete)
			r.Post("/narrations/{narrationID}/submit", narrationHandler.Submit)

			// Progress and badges
			r.Post("/progress", progressHandler.Sync)
			r.Get("/progress", progressHandler.List)
			r.Get("/badges", progressHandler.Badges)

			// Admin endpoints
			r.Group(func(r chi.Router) {
				r.Use(apiMiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/admin/pending", adminHandler.Pending)
				r.Post("/admin/content/{contentType}/{contentID}/approve", adminHandler.Approve)
				r.Post("/admin/content/{contentType}/{contentID}/reject", adminHandler.Reject)
				r.Post("/admin/analytics/compute", analyticsHandler.Compute)
				r.Get("/admin/analytics/snapshots", analyticsHandler.Recent)
			})
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
