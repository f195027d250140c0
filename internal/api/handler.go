// internal/api/handler.go
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mockprep/backend/internal/domain/interview"
	"github.com/mockprep/backend/internal/service"
)

// UserStore records users seen through the identity provider.
type UserStore interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	SaveUser(ctx context.Context, email, name string) error
}

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	interviews *service.InterviewService
	users      UserStore
	logger     *slog.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(interviews *service.InterviewService, users UserStore, logger *slog.Logger) *Handler {
	return &Handler{
		interviews: interviews,
		users:      users,
		logger:     logger,
	}
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, kind interview.Kind, message string) {
	respondJSON(w, status, ErrorBody{Error: ErrorDetail{Kind: string(kind), Message: message}})
}

// decodeJSON reads the request body into v. It writes a 400 and returns
// false when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, interview.KindInvalidInput, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// statusFor maps an error kind to an HTTP status.
func statusFor(kind interview.Kind) int {
	switch kind {
	case interview.KindInvalidInput:
		return http.StatusBadRequest
	case interview.KindUnauthenticated:
		return http.StatusUnauthorized
	case interview.KindSessionNotFound, interview.KindNotFound:
		return http.StatusNotFound
	case interview.KindInvalidState:
		return http.StatusConflict
	case interview.KindGeneration, interview.KindEvaluation:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// handleError writes the response for a service error. Returns true if an
// error was handled (caller should return).
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return false
	}
	kind := interview.KindOf(err)
	status := statusFor(kind)

	message := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "path", r.URL.Path, "kind", kind, "error", err)
		if kind == interview.KindInternal {
			message = "internal error"
		}
	}
	respondError(w, status, kind, message)
	return true
}
