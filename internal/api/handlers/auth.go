package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/baharkarakas/finflow-backend/internal/api/httpx"
	"github.com/baharkarakas/finflow-backend/internal/auth"
)

type AuthHandler struct {
	TM     *auth.TokenManager
	AppEnv string
}

func NewAuthHandler(tm *auth.TokenManager, appEnv string) *AuthHandler {
	return &AuthHandler{TM: tm, AppEnv: appEnv}
}

type tokenReq struct {
	UserID string `json:"user_id"`
}

type tokenResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // seconds
}

func (h *AuthHandler) writePair(w http.ResponseWriter, userID string) {
	p, err := h.TM.GeneratePair(userID)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "token_error", "token generation failed", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tokenResp{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		ExpiresIn:    int64(time.Until(p.AccessExp).Round(time.Second).Seconds()),
	})
}

// Token issues a pair for any user id. Dev only; there is no credential store.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if h.AppEnv != "dev" {
		httpx.WriteError(w, http.StatusNotImplemented, "not_implemented", "token issuance is only available in dev", nil)
		return
	}
	var req tokenReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "validation_error", "user_id required", nil)
		return
	}
	h.writePair(w, req.UserID)
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshReq
	if err := httpx.DecodeJSON(r, &req); err != nil || req.RefreshToken == "" {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid request", nil)
		return
	}
	claims, isRefresh, err := h.TM.ParseAny(req.RefreshToken)
	if err != nil || !isRefresh {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid refresh token", nil)
		return
	}
	h.writePair(w, claims.UserID)
}
