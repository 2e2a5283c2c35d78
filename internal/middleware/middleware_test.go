package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/finflow-backend/internal/auth"
)

func whoami(w http.ResponseWriter, r *http.Request) {
	uid, _ := UserID(r.Context())
	_, _ = w.Write([]byte(uid))
}

func TestAuth(t *testing.T) {
	tm := auth.NewTokenManager("finflow", "a", "b", time.Minute, time.Hour)
	pair, err := tm.GeneratePair("u42")
	require.NoError(t, err)

	cases := []struct {
		name   string
		env    string
		header string
		code   int
		body   string
	}{
		{"missing", "dev", "", http.StatusUnauthorized, ""},
		{"not bearer", "dev", "Basic abc", http.StatusUnauthorized, ""},
		{"dev token", "dev", "Bearer dev-u1", http.StatusOK, "u1"},
		{"dev token outside dev", "prod", "Bearer dev-u1", http.StatusUnauthorized, ""},
		{"access jwt", "prod", "Bearer " + pair.AccessToken, http.StatusOK, "u42"},
		{"lowercase scheme", "prod", "bearer " + pair.AccessToken, http.StatusOK, "u42"},
		{"refresh jwt", "prod", "Bearer " + pair.RefreshToken, http.StatusUnauthorized, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewAuthMiddleware(tm, tc.env).Auth(http.HandlerFunc(whoami))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.code, rec.Code)
			if tc.body != "" {
				assert.Equal(t, tc.body, rec.Body.String())
			}
		})
	}
}

func TestRateLimit_PerClientRefill(t *testing.T) {
	clock := time.Unix(0, 0)
	h := rateLimit(2, func() time.Time { return clock }, hostKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	hit := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, hit("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1:1002"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.2:1000"), "other clients have their own bucket")

	clock = clock.Add(500 * time.Millisecond)
	assert.Equal(t, http.StatusOK, hit("10.0.0.1:1003"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1:1004"))
}

func TestUserRateLimit_KeysByUserBehindOneHost(t *testing.T) {
	clock := time.Unix(0, 0)
	h := rateLimit(1, func() time.Time { return clock }, userKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	hit := func(uid string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:4000"
		if uid != "" {
			req = req.WithContext(WithUserID(req.Context(), uid))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, hit("alice"))
	assert.Equal(t, http.StatusOK, hit("bob"))
	assert.Equal(t, http.StatusTooManyRequests, hit("alice"))
	assert.Equal(t, http.StatusOK, hit(""))
	assert.Equal(t, http.StatusTooManyRequests, hit(""))
}

func TestLimiter_DropsIdleBuckets(t *testing.T) {
	clock := time.Unix(100, 0)
	l := newLimiter(2, func() time.Time { return clock })

	assert.True(t, l.allow("a"))
	assert.True(t, l.allow("b"))
	assert.Len(t, l.buckets, 2)

	clock = clock.Add(500 * time.Millisecond)
	assert.True(t, l.allow("c"))
	assert.Len(t, l.buckets, 3)

	clock = clock.Add(time.Second)
	assert.True(t, l.allow("c"))
	assert.Len(t, l.buckets, 1)
	assert.Contains(t, l.buckets, "c")
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { seen = RequestIDFrom(r.Context()) }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get("X-Request-Id"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "abc", seen)
}

func TestRecover(t *testing.T) {
	h := Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	require.NotPanics(t, func() { h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil)) })
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal_error")
}

func TestHTTPMetrics_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(HTTPMetrics)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/7", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
