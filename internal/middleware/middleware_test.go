package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liamwears/vibeflix/internal/database"
)

func profileEcho(t *testing.T, got *uuid.UUID) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetProfileIDFromContext(r.Context())
		require.True(t, ok)
		*got = id
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestSessionStartsAndResumes(t *testing.T) {
	sessions := database.NewMemorySessionStore(time.Hour)
	mw := NewSessionMiddleware(sessions, "session", time.Hour, false, hclog.NewNullLogger())

	var first uuid.UUID
	rec := httptest.NewRecorder()
	mw.Attach(profileEcho(t, &first)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 3600, cookies[0].MaxAge)

	var second uuid.UUID
	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	mw.Attach(profileEcho(t, &second)).ServeHTTP(rec, req)

	assert.Equal(t, first, second)
	assert.Empty(t, rec.Result().Cookies(), "known session must not be reissued")
}

func TestSessionUnknownCookieStartsNewSession(t *testing.T) {
	mw := NewSessionMiddleware(database.NewMemorySessionStore(time.Hour), "", time.Hour, true, nil)

	var got uuid.UUID
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "forged"})
	rec := httptest.NewRecorder()
	mw.Attach(profileEcho(t, &got)).ServeHTTP(rec, req)

	assert.NotEqual(t, uuid.Nil, got)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.NotEqual(t, "forged", cookies[0].Value)
	assert.True(t, cookies[0].Secure)
}

type failingSessions struct{ database.MemorySessionStore }

func (*failingSessions) Set(context.Context, string, uuid.UUID) error {
	return errors.New("redis down")
}

func TestSessionStartFailure(t *testing.T) {
	mw := NewSessionMiddleware(&failingSessions{}, "session", time.Hour, false, nil)

	rec := httptest.NewRecorder()
	mw.Attach(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to start session"}`, rec.Body.String())
}

func TestRateLimiterIdentifier(t *testing.T) {
	rl := NewRateLimiter(nil, 10, time.Minute, true, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "ip:10.0.0.1", rl.getIdentifier(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "ip:203.0.113.9", rl.getIdentifier(req))

	profile := uuid.New()
	req = req.WithContext(WithProfileID(req.Context(), profile))
	assert.Equal(t, "profile:"+profile.String(), rl.getIdentifier(req))
}

func TestRateLimiterPassesWithoutRedis(t *testing.T) {
	rl := NewRateLimiter(nil, 1, time.Minute, true, nil)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestLoggerRecordsStatus(t *testing.T) {
	handler := middleware.RequestID(Logger(hclog.NewNullLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tea", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short and stout", rec.Body.String())
}
