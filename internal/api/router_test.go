package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/finflow-backend/internal/auth"
	"github.com/baharkarakas/finflow-backend/internal/config"
	"github.com/baharkarakas/finflow-backend/internal/models"
	"github.com/baharkarakas/finflow-backend/internal/repository/memory"
	"github.com/baharkarakas/finflow-backend/internal/services"
)

var now = time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)

type downPinger struct{}

func (downPinger) Ping(context.Context) error { return errors.New("dial tcp: connection refused") }

func newServer(t *testing.T) (http.Handler, *auth.TokenManager) {
	t.Helper()
	return newServerWith(t, config.Config{Env: "dev", StoreMode: config.StoreMemory})
}

func newServerWith(t *testing.T, cfg config.Config) (http.Handler, *auth.TokenManager) {
	t.Helper()
	set := memory.NewSet(memory.NewStore())
	ctx := context.Background()
	add := func(id, user string, typ models.TransactionType, daysAgo int, amount, cat string) {
		_, err := set.Transactions.Create(ctx, models.Transaction{
			ID: id, UserID: user, Date: now.AddDate(0, 0, -daysAgo), Description: cat + " payment",
			Amount: decimal.RequireFromString(amount), Type: typ, Category: cat, Status: models.TxnCompleted,
		})
		require.NoError(t, err)
	}
	add("a", "u1", models.TxnCredit, 1, "1000", "Income")
	add("b", "u1", models.TxnDebit, 2, "40", "Food")
	add("c", "u1", models.TxnDebit, 3, "60", "Bills")
	add("d", "u2", models.TxnDebit, 1, "5", "Food")
	_, err := set.Users.Create(ctx, models.User{
		ID: "u1", Name: "John Doe", Email: "john.doe@example.com", Phone: "555-0100",
		Address: &models.Address{City: "Anytown", Country: "USA"},
	})
	require.NoError(t, err)
	_, err = set.Users.Create(ctx, models.User{ID: "u2", Name: "Admin User", Email: "admin@finflow.com", Role: models.RoleTeller})
	require.NoError(t, err)

	clock := func() time.Time { return now }
	tm := auth.NewTokenManager("finflow", "a", "b", time.Minute, time.Hour)
	h := NewRouter(RouterDeps{
		Cfg:        cfg,
		Tokens:     tm,
		TxnSvc:     services.NewTransactionService(set.Transactions, clock),
		AccountSvc: services.NewAccountService(set.Accounts, clock),
		UserSvc:    services.NewUserService(set.Users, clock),
		Health:     set.Health,
		Now:        clock,
	})
	return h, tm
}

func do(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealth(t *testing.T) {
	h, _ := newServer(t)
	rec := do(h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"connected"`)

	down := NewRouter(RouterDeps{Cfg: config.Config{Env: "dev"}, Health: downPinger{}})
	rec = do(down, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestRateLimit_UsersBehindOneAddress(t *testing.T) {
	h, _ := newServerWith(t, config.Config{Env: "dev", StoreMode: config.StoreMemory, RateRPS: 1})

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api/v1/transactions", "dev-alice", "").Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api/v1/transactions", "dev-bob", "").Code)
	rec := do(h, http.MethodGet, "/api/v1/transactions", "dev-alice", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(h, http.MethodGet, "/health", "", "").Code)
}

func TestTransactions_RequireAuth(t *testing.T) {
	h, _ := newServer(t)
	assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodGet, "/api/v1/transactions", "", "").Code)
}

func TestTransactions_List(t *testing.T) {
	h, _ := newServer(t)
	rec := do(h, http.MethodGet, "/api/v1/transactions?limit=2&page=1", "dev-u1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var page models.TransactionPage
	decode(t, rec, &page)
	assert.Empty(t, page.Error)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "a", page.Data[0].ID)
	assert.Equal(t, models.Pagination{Total: 3, Page: 1, Limit: 2, TotalPages: 2}, page.Pagination)

	rec = do(h, http.MethodGet, "/api/v1/transactions?type=debit&search=food", "dev-u1", "")
	decode(t, rec, &page)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "b", page.Data[0].ID)

	rec = do(h, http.MethodGet, "/api/v1/transactions?page=9", "dev-u1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)

	rec = do(h, http.MethodGet, "/api/v1/transactions?from=yesterday", "dev-u1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransactions_ListHugePaging(t *testing.T) {
	h, _ := newServer(t)
	var page models.TransactionPage
	decode(t, do(h, http.MethodGet, "/api/v1/transactions?page=9223372036854775807&limit=10", "dev-u1", ""), &page)
	assert.Empty(t, page.Data)
	assert.Equal(t, 3, page.Pagination.Total)
	assert.Equal(t, 1, page.Pagination.TotalPages)

	decode(t, do(h, http.MethodGet, "/api/v1/transactions?limit=100000", "dev-u1", ""), &page)
	assert.Len(t, page.Data, 3)
	assert.Equal(t, models.MaxLimit, page.Pagination.Limit)
}

func TestTransactions_ListWithJWT(t *testing.T) {
	h, tm := newServer(t)
	p, err := tm.GeneratePair("u2")
	require.NoError(t, err)

	var page models.TransactionPage
	decode(t, do(h, http.MethodGet, "/api/v1/transactions", p.AccessToken, ""), &page)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "d", page.Data[0].ID)
}

func TestTransactions_GetOwnership(t *testing.T) {
	h, _ := newServer(t)
	rec := do(h, http.MethodGet, "/api/v1/transactions/b", "dev-u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var res models.TransactionResult
	decode(t, rec, &res)
	require.NotNil(t, res.Data)
	assert.Equal(t, "b", res.Data.ID)

	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/api/v1/transactions/b", "dev-u2", "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/api/v1/transactions/zzz", "dev-u1", "").Code)
}

func TestTransactions_Analytics(t *testing.T) {
	h, _ := newServer(t)

	rec := do(h, http.MethodGet, "/api/v1/transactions/categories", "dev-u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":["Bills","Food","Income"]}`, rec.Body.String())

	rec = do(h, http.MethodGet, "/api/v1/transactions/spending", "dev-u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var spending struct {
		Data []models.CategorySpending `json:"data"`
	}
	decode(t, rec, &spending)
	require.Len(t, spending.Data, 2)
	assert.Equal(t, "Bills", spending.Data[0].Category)
	assert.Equal(t, "Food", spending.Data[1].Category)

	rec = do(h, http.MethodGet, "/api/v1/transactions/summary?months=2", "dev-u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var summary struct {
		Data []models.MonthlySummary `json:"data"`
	}
	decode(t, rec, &summary)
	require.Len(t, summary.Data, 2)
	assert.Equal(t, "Apr 2025", summary.Data[1].Month)
	assert.True(t, summary.Data[1].Income.Equal(decimal.NewFromInt(1000)))

	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/api/v1/transactions/summary?months=0", "dev-u1", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/api/v1/transactions/summary?months=x", "dev-u1", "").Code)
	assert.Equal(t, http.StatusBadRequest,
		do(h, http.MethodGet, "/api/v1/transactions/spending?from=2025-04-10&to=2025-04-01", "dev-u1", "").Code)
}

func TestAccounts_Lifecycle(t *testing.T) {
	h, _ := newServer(t)

	rec := do(h, http.MethodPost, "/api/v1/accounts", "dev-u1", `{"accountType":"savings","currency":"eur"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Data models.Account `json:"data"`
	}
	decode(t, rec, &created)
	assert.Equal(t, "Savings Account", created.Data.Name)
	assert.Equal(t, "EUR", created.Data.Currency)
	assert.Len(t, created.Data.AccountNumber, 10)

	id := created.Data.ID
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api/v1/accounts/"+id, "dev-u1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/api/v1/accounts/"+id, "dev-u2", "").Code)

	rec = do(h, http.MethodPatch, "/api/v1/accounts/"+id, "dev-u1", `{"name":"Rainy Day","status":"frozen"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Rainy Day")

	assert.Equal(t, http.StatusNotFound, do(h, http.MethodPatch, "/api/v1/accounts/"+id, "dev-u2", `{"name":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPatch, "/api/v1/accounts/"+id, "dev-u1", `{"status":"gone"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/v1/accounts", "dev-u1", `{"accountType":"gold"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/v1/accounts", "dev-u1", `{"bogus":1}`).Code)

	rec = do(h, http.MethodGet, "/api/v1/accounts", "dev-u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Data []models.Account `json:"data"`
	}
	decode(t, rec, &list)
	assert.Len(t, list.Data, 1)
}

func TestAuthToken(t *testing.T) {
	h, tm := newServer(t)
	rec := do(h, http.MethodPost, "/api/v1/auth/token", "", `{"user_id":"u1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int64  `json:"expires_in"`
	}
	decode(t, rec, &resp)
	claims, isRefresh, err := tm.ParseAny(resp.AccessToken)
	require.NoError(t, err)
	assert.False(t, isRefresh)
	assert.Equal(t, "u1", claims.UserID)
	assert.InDelta(t, 60, resp.ExpiresIn, 2)

	rec = do(h, http.MethodPost, "/api/v1/auth/refresh", "", `{"refresh_token":"`+resp.RefreshToken+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(h, http.MethodPost, "/api/v1/auth/refresh", "", `{"refresh_token":"`+resp.AccessToken+`"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/v1/auth/token", "", `{}`).Code)
}

func TestMe(t *testing.T) {
	h, _ := newServer(t)

	var got struct {
		Data models.User `json:"data"`
	}
	rec := do(h, http.MethodGet, "/api/v1/me", "dev-u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &got)
	assert.Equal(t, "john.doe@example.com", got.Data.Email)
	assert.Equal(t, models.RoleCustomer, got.Data.Role)
	assert.Equal(t, "Anytown", got.Data.Address.City)

	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/api/v1/me", "dev-nobody", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodGet, "/api/v1/me", "", "").Code)
}

func TestUpdateMe(t *testing.T) {
	h, _ := newServer(t)

	rec := do(h, http.MethodPatch, "/api/v1/me", "dev-u1", `{"phone":"555-0199","address":{"city":"Springfield"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got struct {
		Data models.User `json:"data"`
	}
	decode(t, rec, &got)
	assert.Equal(t, "555-0199", got.Data.Phone)
	assert.Equal(t, "Springfield", got.Data.Address.City)
	assert.Equal(t, "u1", got.Data.ID)

	// id and role are not self-service fields.
	rec = do(h, http.MethodPatch, "/api/v1/me", "dev-u1", `{"role":"TELLER"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(h, http.MethodPatch, "/api/v1/me", "dev-u1", `{"id":"u2"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	decode(t, do(h, http.MethodGet, "/api/v1/me", "dev-u1", ""), &got)
	assert.Equal(t, models.RoleCustomer, got.Data.Role)

	rec = do(h, http.MethodPatch, "/api/v1/me", "dev-u1", `{"email":"admin@finflow.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already in use")

	assert.Equal(t, http.StatusNotFound,
		do(h, http.MethodPatch, "/api/v1/me", "dev-nobody", `{"phone":"1"}`).Code)
}
