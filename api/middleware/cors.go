package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000",         // local storefront dev
	"https://stridemart.shop",       // storefront
	"https://www.stridemart.shop",   // storefront www alias
	"https://stridemart.vercel.app", // preview deployments
}

// CORS returns middleware that applies the storefront's allowed origin policy.
// Credentials stay enabled so the guest session cookie survives cross-origin
// fetches.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   defaultCORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
