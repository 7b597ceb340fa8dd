package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandler struct {
	topic string
	fails int
	calls int
	got   [][]byte
}

func (h *fakeHandler) Topic() string { return h.topic }

func (h *fakeHandler) Handle(_ context.Context, b []byte) error {
	h.calls++
	if h.calls <= h.fails {
		return errors.New("transient")
	}
	h.got = append(h.got, b)
	return nil
}

type panicHandler struct{}

func (panicHandler) Topic() string                        { return "boom" }
func (panicHandler) Handle(context.Context, []byte) error { panic("bad payload") }

func newTestConsumer(t *testing.T, retry int) *Consumer {
	t.Helper()
	c, err := NewConsumer(nil,
		WithConsumerBrokers([]string{"localhost:9092"}),
		WithConsumerRetry(retry, time.Millisecond, 2*time.Millisecond),
	)
	require.NoError(t, err)
	return c
}

func TestNewConsumerRequiresBrokers(t *testing.T) {
	_, err := NewConsumer(nil)
	assert.Error(t, err)
}

func TestProcessRetriesUntilSuccess(t *testing.T) {
	c := newTestConsumer(t, 3)
	h := &fakeHandler{topic: "gannforce.cot", fails: 2}
	c.RegisterHandler(h)

	c.process(&message{topic: "gannforce.cot", km: kafka.Message{Value: []byte(`{}`)}})
	assert.Equal(t, 3, h.calls)
	assert.Equal(t, [][]byte{[]byte(`{}`)}, h.got)
}

func TestProcessGivesUp(t *testing.T) {
	c := newTestConsumer(t, 1)
	h := &fakeHandler{topic: "t", fails: 10}
	c.RegisterHandler(h)

	c.process(&message{topic: "t", km: kafka.Message{Value: []byte(`x`)}})
	assert.Equal(t, 2, h.calls)
	assert.Empty(t, h.got)
}

func TestProcessRecoversPanics(t *testing.T) {
	c := newTestConsumer(t, 0)
	c.RegisterHandler(panicHandler{})
	assert.NotPanics(t, func() {
		c.process(&message{topic: "boom", km: kafka.Message{Value: []byte(`x`)}})
	})
}

func TestRegisterHandlerKeepsFirst(t *testing.T) {
	c := newTestConsumer(t, 0)
	first := &fakeHandler{topic: "t"}
	c.RegisterHandler(first)
	c.RegisterHandler(&fakeHandler{topic: "t"})
	assert.Same(t, first, c.handlers["t"])
	assert.Equal(t, []string{"t"}, c.Topics())
}

func TestBackoffWithJitter(t *testing.T) {
	for attempt := 1; attempt < 40; attempt++ {
		d := backoffWithJitter(10*time.Millisecond, 80*time.Millisecond, attempt)
		assert.Greater(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, 80*time.Millisecond)
	}
}
