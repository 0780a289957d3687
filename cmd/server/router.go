package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/agrinathi/agrinathi-api/internal/api"
	apiMiddleware "github.com/agrinathi/agrinathi-api/internal/api/middleware"
)

// setupRouter registers every route on a chi router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	authHandler := api.NewAuthHandler(
		app.farmerStore,
		app.jwtService,
		app.passwordVerifier,
		app.config.Auth,
		app.logger,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	voiceHandler := api.NewVoiceHandler(app.voiceService, app.logger)
	weatherHandler := api.NewWeatherHandler(app.weather, app.logger)
	knowledgeHandler := api.NewKnowledgeHandler(app.knowledgeBase)
	scanHandler := api.NewScanHandler(app.scanService, app.config.Server.MaxUploadSize, app.logger)
	adminHandler := api.NewAdminHandler(app.adminService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)
		r.Get("/test-voice", voiceHandler.TestVoice)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/voice-query", voiceHandler.VoiceQuery)
			r.Post("/text-query", voiceHandler.TextQuery)
			r.Get("/general-advice-audio", voiceHandler.GeneralAdviceAudio)
			r.Post("/text-to-speech", voiceHandler.TextToSpeech)
			r.Get("/queries", voiceHandler.QueryHistory)

			r.Get("/weather/current", weatherHandler.Current)
			r.Get("/weather/forecast", weatherHandler.Forecast)
			r.Get("/knowledge/search", knowledgeHandler.Search)

			r.Post("/plant-scans", scanHandler.Upload)
			r.Get("/plant-scans/{id}", scanHandler.Get)

			r.Route("/admin", func(r chi.Router) {
				r.Use(apiMiddleware.RequireAdmin)

				r.Get("/stats", adminHandler.Stats)
				r.Get("/users", adminHandler.ListUsers)
				r.Get("/users/export", adminHandler.ExportUsers)
				r.Delete("/users/{id}", adminHandler.DeleteUser)
				r.Post("/users/{id}/role", adminHandler.UpdateRole)
				r.Get("/analytics", adminHandler.Analytics)
				r.Get("/settings", adminHandler.Settings)
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})
	r.Handle("/metrics", app.metrics.Handler())

	return r
}
