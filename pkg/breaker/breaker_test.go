package breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreakerTripsAfterConsecutiveFailures(t *testing.T) {
	b := New(Config{Name: "test", ConsecutiveFailures: 2, Timeout: time.Minute}, nil)
	boom := errors.New("boom")

	assert.ErrorIs(t, b.Do(func() error { return boom }), boom)
	assert.ErrorIs(t, b.Do(func() error { return boom }), boom)
	assert.Equal(t, "open", b.State())

	called := false
	err := b.Do(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
}

func TestBreakerPassesSuccess(t *testing.T) {
	b := New(Config{Name: "ok"}, nil)
	assert.NoError(t, b.Do(func() error { return nil }))
	assert.Equal(t, "closed", b.State())
}
