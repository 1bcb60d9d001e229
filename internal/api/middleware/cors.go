package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// NewCORS builds the cross-origin policy for browser dashboards. The API is
// an unauthenticated JSON surface served over GET and POST only, so no
// credentials and no write-method preflight beyond POST are allowed.
func NewCORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
}
