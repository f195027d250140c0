// internal/api/user_handler.go
package api

import (
	"net/http"

	"github.com/mockprep/backend/internal/auth"
)

type UserResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	New   bool   `json:"new"`
}

// getUser godoc
// @Summary      Current user
// @Description  Returns the signed-in user and records them on first sight.
// @Tags         user
// @Produce      json
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  ErrorBody
// @Security     BearerAuth
// @Router       /user [get]
func (h *Handler) getUser(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	exists, err := h.users.ExistsByEmail(r.Context(), id.Email)
	if h.handleError(w, r, err) {
		return
	}
	if !exists {
		if err := h.users.SaveUser(r.Context(), id.Email, id.Name); h.handleError(w, r, err) {
			return
		}
		h.logger.Info("user registered", "email", id.Email)
	}

	respondJSON(w, http.StatusOK, UserResponse{Email: id.Email, Name: id.Name, New: !exists})
}
