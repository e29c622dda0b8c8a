package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows the browser-hosted front end to call the service from any
// origin. Preflight requests are answered with 204 and never reach the
// router.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	handler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "X-Client-Info", "Apikey", "Content-Type", "X-Request-ID"},
		MaxAge:         3600,
	})

	return handler.Handler
}
