package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/yachaflex/yachaflex-api/internal/api"
	apiMiddleware "github.com/yachaflex/yachaflex-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace(app.logger))

	authHandler := api.NewAuthHandler(app.userService, app.logger)
	stressHandler := api.NewStressHandler(app.stressService, app.logger)
	generationHandler := api.NewGenerationHandler(app.generationService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/checkin", stressHandler.SubmitCheckin)
			r.Post("/biometrics", stressHandler.SubmitBiometrics)
			r.Get("/biometrics/status", stressHandler.BiometricsStatus)
			r.Get("/history", stressHandler.History)

			r.Post("/generate", generationHandler.Generate)
			r.Post("/generate/pdf", generationHandler.GenerateFromPDF)
		})
	})

	r.Get("/health", api.HealthCheck)

	return r
}
