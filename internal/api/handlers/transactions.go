package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/finflow-backend/internal/api/httpx"
	"github.com/baharkarakas/finflow-backend/internal/api/validate"
	"github.com/baharkarakas/finflow-backend/internal/middleware"
	"github.com/baharkarakas/finflow-backend/internal/models"
	"github.com/baharkarakas/finflow-backend/internal/services"
)

const (
	defaultSpendingDays = 30
	maxSummaryMonths    = 24
)

type TransactionHandler struct {
	Svc *services.TransactionService
	Now func() time.Time
}

func NewTransactionHandler(svc *services.TransactionService, now func() time.Time) *TransactionHandler {
	if now == nil {
		now = time.Now
	}
	return &TransactionHandler{Svc: svc, Now: now}
}

// parseTime accepts RFC 3339 or a bare date. A bare date used as an upper
// bound covers the whole day.
func parseTime(field, raw string, upper bool) (*time.Time, *validate.ErrField) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, &validate.ErrField{Field: field, Msg: "must be RFC 3339 or YYYY-MM-DD"}
	}
	if upper {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}

// atoi maps anything unparsable to 0, which Normalize turns into the default.
func atoi(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

func parseListQuery(v url.Values) (models.TransactionQuery, error) {
	from, fErr := parseTime("from", v.Get("from"), false)
	to, tErr := parseTime("to", v.Get("to"), true)
	if err := validate.Collect(fErr, tErr); err != nil {
		return models.TransactionQuery{}, err
	}
	return models.TransactionQuery{
		Search:    v.Get("search"),
		Type:      models.TypeFilter(v.Get("type")),
		DateRange: models.DateRange(v.Get("dateRange")),
		Page:      atoi(v.Get("page")),
		Limit:     atoi(v.Get("limit")),
		AccountID: v.Get("accountId"),
		Category:  v.Get("category"),
		From:      from,
		To:        to,
	}.Normalize(), nil
}

// List always answers 200 with an envelope once the query parses. Malformed
// page or limit values fall back to the defaults; limit is capped at
// models.MaxLimit and the envelope echoes the capped value.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	q, err := parseListQuery(r.URL.Query())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.Svc.List(r.Context(), uid, q))
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	res := h.Svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if res.Error != "" {
		httpx.WriteJSON(w, http.StatusOK, res)
		return
	}
	if res.Data == nil || res.Data.UserID != uid {
		notFound(w)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *TransactionHandler) Categories(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	cats, err := h.Svc.Categories(r.Context(), uid, r.URL.Query().Get("accountId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"data": cats})
}

func (h *TransactionHandler) Spending(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	v := r.URL.Query()
	from, fErr := parseTime("from", v.Get("from"), false)
	to, tErr := parseTime("to", v.Get("to"), true)
	if err := validate.Collect(fErr, tErr); err != nil {
		writeServiceError(w, r, err)
		return
	}
	now := h.Now()
	if to == nil {
		to = &now
	}
	if from == nil {
		start := to.AddDate(0, 0, -defaultSpendingDays)
		from = &start
	}
	if to.Before(*from) {
		writeServiceError(w, r, validate.Errs{{Field: "to", Msg: "must not be before from"}})
		return
	}

	out, err := h.Svc.SpendingByCategory(r.Context(), uid, v.Get("accountId"), *from, *to)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"data": out})
}

func (h *TransactionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	months := services.DefaultSummaryMonths
	if raw := r.URL.Query().Get("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeServiceError(w, r, validate.Errs{{Field: "months", Msg: "must be an integer"}})
			return
		}
		if err := validate.Collect(validate.MinInt("months", int64(n), 1), validate.MaxInt("months", int64(n), maxSummaryMonths)); err != nil {
			writeServiceError(w, r, err)
			return
		}
		months = n
	}
	out, err := h.Svc.MonthlySummary(r.Context(), uid, r.URL.Query().Get("accountId"), months)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"data": out})
}
