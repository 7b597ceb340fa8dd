package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderIsShared(t *testing.T) {
	assert.Same(t, New(), New())
}

func TestRecorderCounts(t *testing.T) {
	r := New()
	before := testutil.ToFloat64(r.fetchErrors.WithLabelValues("sentiment"))
	r.ObserveFetch("sentiment", 10*time.Millisecond, errors.New("down"))
	r.ObserveFetch("sentiment", 10*time.Millisecond, nil)
	assert.Equal(t, before+1, testutil.ToFloat64(r.fetchErrors.WithLabelValues("sentiment")))

	r.RecordRecommendation("strong_buy")
	assert.GreaterOrEqual(t, testutil.ToFloat64(r.recommendations.WithLabelValues("strong_buy")), 1.0)

	r.RecordIngest("cot", nil)
	assert.GreaterOrEqual(t, testutil.ToFloat64(r.ingested.WithLabelValues("cot", "ok")), 1.0)

	r.RecordCollection(3, 1)
	assert.GreaterOrEqual(t, testutil.ToFloat64(r.collected.WithLabelValues("failed")), 1.0)
}
