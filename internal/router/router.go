package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"campus-auth/internal/config"
	"campus-auth/internal/handler"
	"campus-auth/internal/middleware"
	"campus-auth/internal/model"
)

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, authHandler *handler.AuthHandler) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1/auth", func(auth chi.Router) {
		auth.Use(middleware.Timeout(cfg.RequestTimeout))

		auth.Post("/register", authHandler.Register)
		auth.Post("/login", authHandler.Login)
		auth.With(authMiddleware.RequireAuth).Get("/me", authHandler.Me)
	})

	// Everything else, method mismatches included, is the same 404.
	r.NotFound(endpointNotFound)
	r.MethodNotAllowed(endpointNotFound)

	return r
}

func endpointNotFound(w http.ResponseWriter, r *http.Request) {
	// Plain OPTIONS requests without preflight headers bypass the CORS
	// middleware; they still get an empty success answer.
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{Error: "endpoint not found"})
}
