package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes is everything the router needs beyond the handlers themselves.
type Routes struct {
	Handlers *Handlers
	// Websocket streaming endpoint, mounted at /ws/verify when set.
	Stream http.Handler
}

// NewRouter wires the verification API.
func NewRouter(rt Routes) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	h := rt.Handlers
	r.Get("/api/health", h.HandleHealthCheck)
	r.Get("/api/verify/{gameId}", h.HandleVerifyGame)
	r.Get("/api/reports", h.HandleRecentReports)
	r.Get("/api/reports/{gameId}", h.HandleLatestReport)

	if rt.Stream != nil {
		r.Method(http.MethodGet, "/ws/verify", rt.Stream)
	}
	return r
}

// corsMiddleware adds CORS headers to allow browser auditors
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
