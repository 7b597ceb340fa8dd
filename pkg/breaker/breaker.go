// Package breaker wraps sony/gobreaker for outbound feeds.
package breaker

import (
	"errors"
	"time"

	cb "github.com/sony/gobreaker"

	applogger "GannForce/pkg/logger"
)

// ErrOpen is returned while the breaker rejects calls.
var ErrOpen = errors.New("circuit breaker open")

type Config struct {
	Name                string
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

type Breaker struct{ cb *cb.CircuitBreaker }

func New(cfg Config, l *applogger.Logger) *Breaker {
	if cfg.Interval <= 0 {
		cfg.Interval = 60 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = 3
	}
	if l == nil {
		l = applogger.Nop()
	}

	st := cb.Settings{Name: cfg.Name, Interval: cfg.Interval, Timeout: cfg.Timeout}
	st.ReadyToTrip = func(counts cb.Counts) bool {
		return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
	}
	st.OnStateChange = func(name string, from, to cb.State) {
		l.Warn("circuit breaker state change",
			applogger.String("breaker", name),
			applogger.String("from", from.String()),
			applogger.String("to", to.String()),
		)
	}
	return &Breaker{cb: cb.NewCircuitBreaker(st)}
}

// Do runs fn through the breaker.
func (b *Breaker) Do(fn func() error) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, cb.ErrOpenState) || errors.Is(err, cb.ErrTooManyRequests) {
		return ErrOpen
	}
	return err
}

// State returns "closed", "half-open" or "open".
func (b *Breaker) State() string { return b.cb.State().String() }
