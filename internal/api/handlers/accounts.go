package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/finflow-backend/internal/api/httpx"
	"github.com/baharkarakas/finflow-backend/internal/middleware"
	"github.com/baharkarakas/finflow-backend/internal/models"
	"github.com/baharkarakas/finflow-backend/internal/services"
)

type AccountHandler struct {
	Svc *services.AccountService
}

func NewAccountHandler(svc *services.AccountService) *AccountHandler {
	return &AccountHandler{Svc: svc}
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	out, err := h.Svc.ListByUser(r.Context(), uid)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"data": out})
}

// owned loads the account in the URL and 404s unless the caller owns it.
func (h *AccountHandler) owned(w http.ResponseWriter, r *http.Request) (*models.Account, bool) {
	uid, _ := middleware.UserID(r.Context())
	a, err := h.Svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return nil, false
	}
	if a == nil || a.UserID != uid {
		notFound(w)
		return nil, false
	}
	return a, true
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, ok := h.owned(w, r)
	if !ok {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"data": a})
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	var in models.AccountInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
		return
	}
	a, err := h.Svc.Create(r.Context(), uid, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{"data": a})
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	a, ok := h.owned(w, r)
	if !ok {
		return
	}
	var u models.AccountUpdate
	if err := httpx.DecodeJSON(r, &u); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
		return
	}
	updated, err := h.Svc.Update(r.Context(), a.ID, u)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"data": updated})
}
