package repository

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GannForce/internal/domain/models"
	domrepo "GannForce/internal/domain/repository"
	"GannForce/pkg/cache"
	applogger "GannForce/pkg/logger"
)

type countingOrderBook struct {
	calls int
	rows  []models.OrderBookAsset
}

func (c *countingOrderBook) All(context.Context) ([]models.OrderBookAsset, error) {
	c.calls++
	return c.rows, nil
}

func (c *countingOrderBook) Upsert(_ context.Context, rows []models.OrderBookAsset) error {
	c.rows = rows
	return nil
}

type countingPositioning struct{ calls int }

func (c *countingPositioning) Latest(context.Context) (*models.PositioningSnapshot, error) {
	c.calls++
	if c.calls == 1 {
		return nil, domrepo.ErrNoScan
	}
	return &models.PositioningSnapshot{ScanID: "s1"}, nil
}

func (c *countingPositioning) Save(context.Context, models.PositioningDataset, time.Time) (string, error) {
	return "s2", nil
}

func TestCachedOrderBookReadThroughAndUpsert(t *testing.T) {
	mc := cache.NewMemoryCache()
	defer mc.Close()
	inner := &countingOrderBook{rows: []models.OrderBookAsset{{Symbol: "XAUUSD"}}}
	store := NewCachedOrderBookStore(inner, mc, time.Minute, applogger.Nop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		rows, err := store.All(ctx)
		require.NoError(t, err)
		assert.Equal(t, "XAUUSD", rows[0].Symbol)
	}
	assert.Equal(t, 1, inner.calls)

	require.NoError(t, store.Upsert(ctx, []models.OrderBookAsset{{Symbol: "EURUSD"}}))
	rows, err := store.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EURUSD", rows[0].Symbol)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedPositioningDoesNotCacheErrors(t *testing.T) {
	mc := cache.NewMemoryCache()
	defer mc.Close()
	inner := &countingPositioning{}
	store := NewCachedPositioningStore(inner, mc, time.Minute, applogger.Nop())
	ctx := context.Background()

	_, err := store.Latest(ctx)
	assert.ErrorIs(t, err, domrepo.ErrNoScan)

	snap, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "s1", snap.ScanID)

	_, _ = store.Latest(ctx)
	assert.Equal(t, 2, inner.calls)
}

// failingDeleteCache is a memory cache whose Delete always fails.
type failingDeleteCache struct {
	*cache.MemoryCache
}

func (failingDeleteCache) Delete(context.Context, ...string) error {
	return errors.New("redis: connection refused")
}

func TestCachedWritesLogFailedDrop(t *testing.T) {
	mc := failingDeleteCache{cache.NewMemoryCache()}
	defer mc.Close()
	var buf bytes.Buffer
	l := applogger.NewWriter(&buf)
	ctx := context.Background()

	ob := NewCachedOrderBookStore(&countingOrderBook{}, mc, time.Minute, l)
	require.NoError(t, ob.Upsert(ctx, []models.OrderBookAsset{{Symbol: "XAUUSD"}}))
	assert.Contains(t, buf.String(), "cache delete failed")
	assert.Contains(t, buf.String(), latestKey(domrepo.DatasetOrderBook))
	assert.Contains(t, buf.String(), "connection refused")

	buf.Reset()
	pos := NewCachedPositioningStore(&countingPositioning{}, mc, time.Minute, l)
	id, err := pos.Save(ctx, models.PositioningDataset{}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "s2", id)
	assert.Contains(t, buf.String(), "cache delete failed")
	assert.Contains(t, buf.String(), latestKey(domrepo.DatasetCot))
}

func TestCacheInvalidator(t *testing.T) {
	mc := cache.NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()
	require.NoError(t, mc.Set(ctx, latestKey(domrepo.DatasetSentiment), "x", time.Minute))
	require.NoError(t, mc.Set(ctx, latestKey(domrepo.DatasetCot), "y", time.Minute))

	require.NoError(t, NewCacheInvalidator(mc).Invalidate(ctx, domrepo.DatasetSentiment))

	var s string
	assert.ErrorIs(t, mc.Get(ctx, latestKey(domrepo.DatasetSentiment), &s), cache.ErrCacheMiss)
	assert.NoError(t, mc.Get(ctx, latestKey(domrepo.DatasetCot), &s))
}

func TestFileSentimentSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sentiment.json")
	src := NewFileSentimentSource(path)

	_, err := src.Latest(context.Background())
	assert.ErrorIs(t, err, domrepo.ErrNoScan)

	body := `{"source":"myfxbook.com","scraped_at":"2025-02-12T09:30:00Z","total_symbols":1,
"data":[{"symbol":"XAUUSD","short_pct":30,"long_pct":70}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	ds, err := src.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "myfxbook.com", ds.Source)
	require.Len(t, ds.Data, 1)
	assert.Equal(t, 70.0, ds.Data[0].LongPct)

	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err = src.Latest(context.Background())
	assert.Error(t, err)
}
