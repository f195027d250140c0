// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mockprep/backend/internal/auth"
	"github.com/mockprep/backend/internal/domain/interview"
)

// RegisterRoutes mounts the interview and user endpoints on mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("POST /interview/start", h.requireIdentity(h.startInterview))
	mux.HandleFunc("POST /interview/answer", h.requireIdentity(h.submitAnswer))
	mux.HandleFunc("GET /interview/current", h.requireIdentity(h.currentInterview))
	mux.HandleFunc("GET /interview/results", h.requireIdentity(h.listResults))
	mux.HandleFunc("GET /interview/results/{resultID}", h.requireIdentity(h.getResult))

	mux.HandleFunc("GET /user", h.requireIdentity(h.getUser))
}

type identityHandler func(w http.ResponseWriter, r *http.Request, id auth.Identity)

// requireIdentity rejects requests that carry no authenticated identity.
func (h *Handler) requireIdentity(next identityHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, interview.KindUnauthenticated, "authentication required")
			return
		}
		next(w, r, id)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Logging logs one line per request with its status and duration.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// CORS allows the browser frontend to call the API from another origin.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
