package repository

import (
	"context"
	"errors"
	"time"

	"GannForce/internal/domain/models"
)

// ErrNoScan is returned when no snapshot of a dataset has been stored yet.
var ErrNoScan = errors.New("no scan stored")

// PositioningStore persists COT scans.
type PositioningStore interface {
	Latest(ctx context.Context) (*models.PositioningSnapshot, error)
	Save(ctx context.Context, ds models.PositioningDataset, scrapedAt time.Time) (scanID string, err error)
}

// SentimentSource yields the latest retail sentiment snapshot.
type SentimentSource interface {
	Latest(ctx context.Context) (*models.SentimentDataset, error)
}

// SentimentStore is a SentimentSource that can also persist snapshots.
type SentimentStore interface {
	SentimentSource
	Save(ctx context.Context, ds models.SentimentDataset) (scanID string, err error)
}

// OrderBookStore keeps one row per symbol; Upsert replaces by symbol.
type OrderBookStore interface {
	All(ctx context.Context) ([]models.OrderBookAsset, error)
	Upsert(ctx context.Context, rows []models.OrderBookAsset) error
}

// Publisher sends a scraped snapshot to the ingest transport.
type Publisher interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// Invalidator drops cached dataset reads after an ingest.
type Invalidator interface {
	Invalidate(ctx context.Context, dataset string) error
}

// Metrics is implemented by pkg/metrics.Recorder.
type Metrics interface {
	ObserveFetch(dataset string, d time.Duration, err error)
	RecordRecommendation(rec string)
	RecordIngest(dataset string, err error)
	RecordCollection(ok, failed int)
}

// Dataset names used in cache keys, metrics and error maps.
const (
	DatasetCot       = "cot"
	DatasetSentiment = "sentiment"
	DatasetOrderBook = "orderbook"
)
