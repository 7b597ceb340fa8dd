package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder records dataset, reconciliation, ingest and collection metrics.
type Recorder struct {
	fetchLatency    *prometheus.HistogramVec
	fetchErrors     *prometheus.CounterVec
	recommendations *prometheus.CounterVec
	ingested        *prometheus.CounterVec
	collected       *prometheus.CounterVec
	lastCollect     prometheus.Gauge
}

var (
	recorder     *Recorder
	recorderOnce sync.Once
)

// New returns the process-wide recorder. Collectors register once.
func New() *Recorder {
	recorderOnce.Do(func() {
		recorder = &Recorder{
			fetchLatency: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "gannforce_dataset_fetch_seconds",
					Help:    "Latency of loading one dataset leg",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"dataset"},
			),
			fetchErrors: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "gannforce_dataset_fetch_errors_total",
					Help: "Dataset legs that failed to load",
				},
				[]string{"dataset"},
			),
			recommendations: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "gannforce_recommendations_total",
					Help: "Recommendations emitted by reconciliation",
				},
				[]string{"recommendation"},
			),
			ingested: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "gannforce_ingest_messages_total",
					Help: "Scraper snapshots ingested",
				},
				[]string{"dataset", "result"},
			),
			collected: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "gannforce_orderbook_symbols_total",
					Help: "Order-book symbols collected from FastBull",
				},
				[]string{"result"},
			),
			lastCollect: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "gannforce_orderbook_last_collect_timestamp",
					Help: "Unix time of the last finished collection pass",
				},
			),
		}
	})
	return recorder
}

// ObserveFetch records one dataset load.
func (r *Recorder) ObserveFetch(dataset string, d time.Duration, err error) {
	r.fetchLatency.WithLabelValues(dataset).Observe(d.Seconds())
	if err != nil {
		r.fetchErrors.WithLabelValues(dataset).Inc()
	}
}

// RecordRecommendation counts one emitted recommendation.
func (r *Recorder) RecordRecommendation(rec string) {
	r.recommendations.WithLabelValues(rec).Inc()
}

// RecordIngest counts one ingested snapshot.
func (r *Recorder) RecordIngest(dataset string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.ingested.WithLabelValues(dataset, result).Inc()
}

// RecordCollection records the outcome of one collection pass.
func (r *Recorder) RecordCollection(ok, failed int) {
	r.collected.WithLabelValues("ok").Add(float64(ok))
	r.collected.WithLabelValues("failed").Add(float64(failed))
	r.lastCollect.SetToCurrentTime()
}
