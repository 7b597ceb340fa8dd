package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"GannForce/pkg/breaker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendAndParseJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gf-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "1", r.URL.Query().Get("type"))
		_, _ = w.Write([]byte(`{"code":0,"bodyMessage":"[]"}`))
	}))
	defer srv.Close()

	c := NewClient(WithUserAgent("gf-test"), WithRateLimit(100, 1))
	var out struct {
		Code        int    `json:"code"`
		BodyMessage string `json:"bodyMessage"`
	}
	err := c.SendAndParse(context.Background(), &RequestOptions{
		Method:      MethodGet,
		URL:         srv.URL,
		QueryParams: map[string][]string{"type": {"1"}},
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "[]", out.BodyMessage)
}

func TestClientErrorsDoNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	b := breaker.New(breaker.Config{Name: "t", ConsecutiveFailures: 1}, nil)
	c := NewClient(WithBreaker(b))
	for i := 0; i < 3; i++ {
		err := c.SendAndParse(context.Background(), &RequestOptions{Method: MethodGet, URL: srv.URL}, nil)
		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusNotFound, se.Code)
	}
	assert.Equal(t, "closed", b.State())
}

func TestServerErrorsTripBreaker(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	b := breaker.New(breaker.Config{Name: "t", ConsecutiveFailures: 2}, nil)
	c := NewClient(WithBreaker(b))
	opts := &RequestOptions{Method: MethodGet, URL: srv.URL}
	_ = c.SendAndParse(context.Background(), opts, nil)
	_ = c.SendAndParse(context.Background(), opts, nil)
	err := c.SendAndParse(context.Background(), opts, nil)
	assert.ErrorIs(t, err, breaker.ErrOpen)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}
