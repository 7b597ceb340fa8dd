package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	applogger "GannForce/pkg/logger"
)

func TestAllowRefills(t *testing.T) {
	now := time.Date(2025, 2, 12, 0, 0, 0, 0, time.UTC)
	l := New()
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a", 2, 1))
	assert.True(t, l.Allow("a", 2, 1))
	assert.False(t, l.Allow("a", 2, 1))
	assert.True(t, l.Allow("b", 2, 1), "keys are independent")

	now = now.Add(time.Second)
	assert.True(t, l.Allow("a", 2, 1))
	assert.False(t, l.Allow("a", 2, 1))

	now = now.Add(time.Hour)
	l.Sweep(time.Minute)
	assert.Empty(t, l.m)
}

func TestMiddleware(t *testing.T) {
	e := echo.New()
	l := New()
	e.GET("/api/dashboard", func(c echo.Context) error { return c.String(http.StatusOK, "ok") },
		l.Middleware(0, 1, applogger.Nop()))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
