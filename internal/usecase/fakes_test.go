package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"GannForce/internal/domain/models"
	domrepo "GannForce/internal/domain/repository"
	"GannForce/internal/service/fastbull"
	"GannForce/internal/services/orderbook"
)

type fakePositioning struct {
	snap  *models.PositioningSnapshot
	err   error
	saved models.PositioningDataset
}

func (f *fakePositioning) Latest(context.Context) (*models.PositioningSnapshot, error) {
	return f.snap, f.err
}

func (f *fakePositioning) Save(_ context.Context, ds models.PositioningDataset, _ time.Time) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saved = ds
	return "scan-1", nil
}

type fakeSentiment struct {
	ds    *models.SentimentDataset
	err   error
	saved *models.SentimentDataset
}

func (f *fakeSentiment) Latest(context.Context) (*models.SentimentDataset, error) {
	return f.ds, f.err
}

func (f *fakeSentiment) Save(_ context.Context, ds models.SentimentDataset) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saved = &ds
	return "sent-1", nil
}

type fakeOrderBook struct {
	mu    sync.Mutex
	rows  []models.OrderBookAsset
	err   error
	calls int
}

func (f *fakeOrderBook) All(context.Context) ([]models.OrderBookAsset, error) {
	return f.rows, f.err
}

func (f *fakeOrderBook) Upsert(_ context.Context, rows []models.OrderBookAsset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.rows = rows
	return nil
}

type fakeInvalidator struct{ datasets []string }

func (f *fakeInvalidator) Invalidate(_ context.Context, dataset string) error {
	f.datasets = append(f.datasets, dataset)
	return nil
}

type fakeMetrics struct {
	mu        sync.Mutex
	fetchErrs map[string]int
	recs      map[string]int
	ingests   map[string]int
	ok        int
	failed    int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{fetchErrs: map[string]int{}, recs: map[string]int{}, ingests: map[string]int{}}
}

func (m *fakeMetrics) ObserveFetch(dataset string, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.fetchErrs[dataset]++
	}
}

func (m *fakeMetrics) RecordRecommendation(rec string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[rec]++
}

func (m *fakeMetrics) RecordIngest(dataset string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := dataset
	if err != nil {
		key += ":error"
	}
	m.ingests[key]++
}

func (m *fakeMetrics) RecordCollection(ok, failed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ok += ok
	m.failed += failed
}

type fakePublisher struct {
	topic string
	key   string
	value []byte
}

func (p *fakePublisher) Publish(_ context.Context, topic string, key []byte, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	p.topic, p.key, p.value = topic, string(key), b
	return nil
}

func (p *fakePublisher) Close() error { return nil }

type fakeBooks struct {
	pairs []fastbull.Pair
	books map[string][2]*orderbook.Book
}

func (f *fakeBooks) Pairs(context.Context) ([]fastbull.Pair, error) { return f.pairs, nil }

func (f *fakeBooks) Book(_ context.Context, id string) (*orderbook.Book, *orderbook.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, nil, errors.New("pair not found")
	}
	return b[0], b[1], nil
}

type fakeLock struct {
	held     bool
	unlocked bool
}

func (l *fakeLock) TryLock(context.Context, string, time.Duration) (bool, error) {
	if l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

func (l *fakeLock) Unlock(context.Context, string) error {
	l.held = false
	l.unlocked = true
	return nil
}

var _ domrepo.SentimentStore = (*fakeSentiment)(nil)

func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }
