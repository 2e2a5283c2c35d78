package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/baharkarakas/finflow-backend/internal/api/httpx"
	repo "github.com/baharkarakas/finflow-backend/internal/repository"
)

const pingTimeout = 3 * time.Second

type healthResp struct {
	Status string `json:"status"` // connected | disconnected
	Store  string `json:"store,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Health reports store reachability; 503 when the ping fails.
func Health(p repo.Pinger, store string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			httpx.WriteJSON(w, http.StatusServiceUnavailable, healthResp{Status: "disconnected", Store: store, Error: err.Error()})
			return
		}
		httpx.WriteJSON(w, http.StatusOK, healthResp{Status: "connected", Store: store})
	}
}
