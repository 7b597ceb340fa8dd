package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"GannForce/internal/domain/models"
	domrepo "GannForce/internal/domain/repository"
	"GannForce/internal/service/fastbull"
	"GannForce/internal/services/orderbook"
	applogger "GannForce/pkg/logger"
)

const (
	orderBookSource = "fastbull.com/order-book"
	collectLockKey  = "lock:orderbook:collect"
	collectLockTTL  = 10 * time.Minute
	orderBookMsgKey = "orderbook"
)

// ErrCollectionRunning is returned when another collection holds the lock.
var ErrCollectionRunning = errors.New("order-book collection already running")

// BookSource is the FastBull API.
type BookSource interface {
	Pairs(ctx context.Context) ([]fastbull.Pair, error)
	Book(ctx context.Context, pairID string) (orders, positions *orderbook.Book, err error)
}

// Locker guards a collection pass across processes.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// OrderBookCollector polls FastBull and hands the snapshot to Kafka, or
// stores it directly when no publisher is configured.
type OrderBookCollector struct {
	src     BookSource
	ingest  *Ingestor
	pub     domrepo.Publisher
	topic   string
	lock    Locker
	symbols map[string]bool
	metrics domrepo.Metrics
	l       *applogger.Logger
	now     func() time.Time
}

// NewOrderBookCollector builds a collector. pub and lock may be nil. An
// empty symbols list collects every pair.
func NewOrderBookCollector(
	src BookSource,
	ingest *Ingestor,
	pub domrepo.Publisher,
	topic string,
	lock Locker,
	symbols []string,
	metrics domrepo.Metrics,
	l *applogger.Logger,
) *OrderBookCollector {
	c := &OrderBookCollector{
		src:     src,
		ingest:  ingest,
		pub:     pub,
		topic:   topic,
		lock:    lock,
		metrics: metrics,
		l:       l,
		now:     time.Now,
	}
	if len(symbols) > 0 {
		c.symbols = make(map[string]bool, len(symbols))
		for _, s := range symbols {
			c.symbols[s] = true
		}
	}
	return c
}

// Collect runs one pass. A pair whose book fails is logged and skipped.
func (c *OrderBookCollector) Collect(ctx context.Context) (*models.OrderBookSnapshot, error) {
	if c.lock != nil {
		ok, err := c.lock.TryLock(ctx, collectLockKey, collectLockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire collect lock: %w", err)
		}
		if !ok {
			return nil, ErrCollectionRunning
		}
		defer func() { _ = c.lock.Unlock(context.WithoutCancel(ctx), collectLockKey) }()
	}

	start := time.Now()
	pairs, err := c.src.Pairs(ctx)
	if err != nil {
		return nil, err
	}
	c.l.Info("fastbull pairs fetched", applogger.Int("pairs", len(pairs)))

	scrapedAt := c.now().UTC()
	snap := &models.OrderBookSnapshot{Source: orderBookSource, ScrapedAt: scrapedAt, Data: []models.OrderBookAsset{}}
	failed := 0
	for _, p := range pairs {
		if c.symbols != nil && !c.symbols[p.Symbol] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		orders, positions, err := c.src.Book(ctx, p.ID())
		if err != nil {
			failed++
			c.l.Warn("fastbull pair failed", applogger.String("symbol", p.Symbol), applogger.Error(err))
			continue
		}
		a := orderbook.Summarize(p.Symbol, orders, positions, scrapedAt)
		snap.Data = append(snap.Data, a)
		c.l.Debug("fastbull pair collected",
			applogger.String("symbol", p.Symbol),
			applogger.Any("orders_buy_pct", a.OrdersBuyPct),
			applogger.Any("positions_long_pct", a.PositionsLongPct),
		)
	}
	snap.TotalSymbols = len(snap.Data)
	c.metrics.RecordCollection(snap.TotalSymbols, failed)

	if snap.TotalSymbols == 0 {
		return snap, fmt.Errorf("no order-book symbols collected (%d failed)", failed)
	}
	if err := c.deliver(ctx, snap); err != nil {
		return snap, err
	}
	c.l.Info("fastbull collection finished",
		applogger.Int("symbols", snap.TotalSymbols),
		applogger.Int("failed", failed),
		applogger.Duration("took_ms", time.Since(start)),
	)
	return snap, nil
}

// Run adapts Collect to the scheduler; a held lock is not an error.
func (c *OrderBookCollector) Run(ctx context.Context) error {
	_, err := c.Collect(ctx)
	if errors.Is(err, ErrCollectionRunning) {
		c.l.Info("fastbull collection skipped: lock held")
		return nil
	}
	return err
}

func (c *OrderBookCollector) deliver(ctx context.Context, snap *models.OrderBookSnapshot) error {
	if c.pub != nil {
		if err := c.pub.Publish(ctx, c.topic, []byte(orderBookMsgKey), snap); err != nil {
			return fmt.Errorf("publish orderbook: %w", err)
		}
		return nil
	}
	_, err := c.ingest.SaveOrderBook(ctx, snap.Data)
	return err
}
