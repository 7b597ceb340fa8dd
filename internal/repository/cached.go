package repository

import (
	"context"
	"errors"
	"time"

	"GannForce/internal/domain/models"
	domrepo "GannForce/internal/domain/repository"
	"GannForce/pkg/cache"
	applogger "GannForce/pkg/logger"
)

// latestKey is the cache key of a dataset's latest snapshot.
func latestKey(dataset string) string {
	return cache.Key("dataset", dataset, "latest")
}

// readThrough serves key from c, falling back to load and filling c.
// Cache failures are logged and never fail the read.
func readThrough[T any](ctx context.Context, c cache.Service, l *applogger.Logger, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var v T
	err := c.Get(ctx, key, &v)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		l.Warn("cache get failed", applogger.String("key", key), applogger.Error(err))
	}

	v, err = load(ctx)
	if err != nil {
		return v, err
	}
	if err := c.Set(ctx, key, v, ttl); err != nil {
		l.Warn("cache set failed", applogger.String("key", key), applogger.Error(err))
	}
	return v, nil
}

// dropKey removes key from c. A failed drop is logged and leaves the entry
// to expire on its TTL.
func dropKey(ctx context.Context, c cache.Service, l *applogger.Logger, key string) {
	if err := c.Delete(ctx, key); err != nil {
		l.Warn("cache delete failed", applogger.String("key", key), applogger.Error(err))
	}
}

// CachedPositioningStore caches Latest; Save passes through and drops the
// cached snapshot.
type CachedPositioningStore struct {
	inner domrepo.PositioningStore
	c     cache.Service
	ttl   time.Duration
	l     *applogger.Logger
}

func NewCachedPositioningStore(inner domrepo.PositioningStore, c cache.Service, ttl time.Duration, l *applogger.Logger) *CachedPositioningStore {
	return &CachedPositioningStore{inner: inner, c: c, ttl: ttl, l: l}
}

func (s *CachedPositioningStore) Latest(ctx context.Context) (*models.PositioningSnapshot, error) {
	return readThrough(ctx, s.c, s.l, latestKey(domrepo.DatasetCot), s.ttl, s.inner.Latest)
}

func (s *CachedPositioningStore) Save(ctx context.Context, ds models.PositioningDataset, scrapedAt time.Time) (string, error) {
	id, err := s.inner.Save(ctx, ds, scrapedAt)
	if err != nil {
		return "", err
	}
	dropKey(ctx, s.c, s.l, latestKey(domrepo.DatasetCot))
	return id, nil
}

// CachedSentimentSource caches any SentimentSource.
type CachedSentimentSource struct {
	inner domrepo.SentimentSource
	c     cache.Service
	ttl   time.Duration
	l     *applogger.Logger
}

func NewCachedSentimentSource(inner domrepo.SentimentSource, c cache.Service, ttl time.Duration, l *applogger.Logger) *CachedSentimentSource {
	return &CachedSentimentSource{inner: inner, c: c, ttl: ttl, l: l}
}

func (s *CachedSentimentSource) Latest(ctx context.Context) (*models.SentimentDataset, error) {
	return readThrough(ctx, s.c, s.l, latestKey(domrepo.DatasetSentiment), s.ttl, s.inner.Latest)
}

// CachedOrderBookStore caches All; Upsert passes through and drops the
// cached rows.
type CachedOrderBookStore struct {
	inner domrepo.OrderBookStore
	c     cache.Service
	ttl   time.Duration
	l     *applogger.Logger
}

func NewCachedOrderBookStore(inner domrepo.OrderBookStore, c cache.Service, ttl time.Duration, l *applogger.Logger) *CachedOrderBookStore {
	return &CachedOrderBookStore{inner: inner, c: c, ttl: ttl, l: l}
}

func (s *CachedOrderBookStore) All(ctx context.Context) ([]models.OrderBookAsset, error) {
	return readThrough(ctx, s.c, s.l, latestKey(domrepo.DatasetOrderBook), s.ttl, s.inner.All)
}

func (s *CachedOrderBookStore) Upsert(ctx context.Context, rows []models.OrderBookAsset) error {
	if err := s.inner.Upsert(ctx, rows); err != nil {
		return err
	}
	dropKey(ctx, s.c, s.l, latestKey(domrepo.DatasetOrderBook))
	return nil
}

// CacheInvalidator drops every cached key of a dataset.
type CacheInvalidator struct {
	c cache.Service
}

func NewCacheInvalidator(c cache.Service) *CacheInvalidator {
	return &CacheInvalidator{c: c}
}

func (i *CacheInvalidator) Invalidate(ctx context.Context, dataset string) error {
	return i.c.DeleteByPattern(ctx, cache.Key("dataset", dataset, "*"))
}
