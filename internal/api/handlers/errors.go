package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/baharkarakas/finflow-backend/internal/api/httpx"
	"github.com/baharkarakas/finflow-backend/internal/api/validate"
	repo "github.com/baharkarakas/finflow-backend/internal/repository"
	"github.com/baharkarakas/finflow-backend/internal/services"
)

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validate.Errs
	switch {
	case errors.As(err, &verrs):
		httpx.WriteError(w, http.StatusBadRequest, "validation_error", "invalid input", verrs)
	case errors.Is(err, services.ErrMissingScope):
		httpx.WriteError(w, http.StatusBadRequest, "missing_scope", err.Error(), nil)
	case errors.Is(err, repo.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "not found", nil)
	default:
		slog.Error("request failed", "err", err, "path", r.URL.Path)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}

func notFound(w http.ResponseWriter) {
	httpx.WriteError(w, http.StatusNotFound, "not_found", "not found", nil)
}
