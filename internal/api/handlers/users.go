package handlers

import (
	"net/http"

	"github.com/baharkarakas/finflow-backend/internal/api/httpx"
	"github.com/baharkarakas/finflow-backend/internal/middleware"
	"github.com/baharkarakas/finflow-backend/internal/models"
	"github.com/baharkarakas/finflow-backend/internal/services"
)

type UserHandler struct {
	Svc *services.UserService
}

func NewUserHandler(svc *services.UserService) *UserHandler {
	return &UserHandler{Svc: svc}
}

// Me returns the caller's profile, or 404 if the token subject has none.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	u, err := h.Svc.GetByID(r.Context(), uid)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if u == nil {
		notFound(w)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"data": u})
}

// UpdateMe accepts name, email, profileUrl, phone and address. Any other
// field, id and role included, is rejected.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	var in models.UserUpdate
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
		return
	}
	u, err := h.Svc.Update(r.Context(), uid, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"data": u})
}
