package http

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/refverify/engine/internal/middleware"
)

// NewRouter builds the verification API's router: every route except
// /health and /v1/health requires a bearer credential.
func NewRouter(handler *Handler, authMiddleware *middleware.AuthMiddleware, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", handler.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", handler.Health)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/verify", handler.Verify)
			r.Post("/verify/batch", handler.VerifyBatch)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.AdminOnly)
				r.Post("/admin/keys", handler.CreateAPIKey)
			})
		})
	})

	return r
}
