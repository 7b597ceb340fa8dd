package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"GannForce/internal/domain/models"
	domrepo "GannForce/internal/domain/repository"
	"GannForce/internal/services/positioning"
	applogger "GannForce/pkg/logger"
	"GannForce/pkg/util"
)

// IngestResult reports what one ingest stored.
type IngestResult struct {
	Dataset string   `json:"dataset"`
	ScanID  string   `json:"scan_id,omitempty"`
	Rows    int      `json:"rows"`
	Dropped []string `json:"dropped,omitempty"`
}

// ScrapedOrderBook is an order-book snapshot as either scraper emits it.
// Entries may be nested ({orders:{...}, positions:{...}}) or flat
// OrderBookAsset rows.
type ScrapedOrderBook struct {
	Source       string                  `json:"source"`
	ScrapedAt    util.FlexTime           `json:"scraped_at"`
	TotalSymbols int                     `json:"total_symbols"`
	Data         []ScrapedOrderBookEntry `json:"data"`
}

type ScrapedOrderBookEntry struct {
	models.OrderBookAsset
	Orders *struct {
		CurrentPrice util.FlexString `json:"currentPrice"`
		BuyPct       float64         `json:"buy_pct"`
		SellPct      float64         `json:"sell_pct"`
	} `json:"orders,omitempty"`
	Positions *struct {
		CurrentPrice   util.FlexString `json:"currentPrice"`
		LongPct        float64         `json:"long_pct"`
		ShortPct       float64         `json:"short_pct"`
		LongProfitPct  float64         `json:"long_profit_pct"`
		LongLossPct    float64         `json:"long_loss_pct"`
		ShortProfitPct float64         `json:"short_profit_pct"`
		ShortLossPct   float64         `json:"short_loss_pct"`
	} `json:"positions,omitempty"`
}

// Asset flattens the entry. Nested sections win over flat fields.
func (e ScrapedOrderBookEntry) Asset(scrapedAt time.Time) models.OrderBookAsset {
	a := e.OrderBookAsset
	if o := e.Orders; o != nil {
		a.OrdersPrice = nonEmpty(string(o.CurrentPrice))
		a.OrdersBuyPct = ptr(o.BuyPct)
		a.OrdersSellPct = ptr(o.SellPct)
	}
	if p := e.Positions; p != nil {
		a.PositionsPrice = nonEmpty(string(p.CurrentPrice))
		a.PositionsLongPct = ptr(p.LongPct)
		a.PositionsShortPct = ptr(p.ShortPct)
		a.PositionsLongProfitPct = ptr(p.LongProfitPct)
		a.PositionsLongLossPct = ptr(p.LongLossPct)
		a.PositionsShortProfit = ptr(p.ShortProfitPct)
		a.PositionsShortLoss = ptr(p.ShortLossPct)
	}
	if a.ScrapedAt == nil && !scrapedAt.IsZero() {
		ts := scrapedAt
		a.ScrapedAt = &ts
	}
	return a
}

// Ingestor normalises scraper output, stores it, and drops cached reads.
type Ingestor struct {
	positioning domrepo.PositioningStore
	sentiment   domrepo.SentimentStore
	orderbook   domrepo.OrderBookStore
	invalidator domrepo.Invalidator
	metrics     domrepo.Metrics
	l           *applogger.Logger
	now         func() time.Time
}

func NewIngestor(
	positioning domrepo.PositioningStore,
	sentiment domrepo.SentimentStore,
	orderbook domrepo.OrderBookStore,
	invalidator domrepo.Invalidator,
	metrics domrepo.Metrics,
	l *applogger.Logger,
) *Ingestor {
	return &Ingestor{
		positioning: positioning,
		sentiment:   sentiment,
		orderbook:   orderbook,
		invalidator: invalidator,
		metrics:     metrics,
		l:           l,
		now:         time.Now,
	}
}

// IngestCot stores a category-keyed COT scan. Unknown categories are
// dropped and reported.
func (in *Ingestor) IngestCot(ctx context.Context, ds models.PositioningDataset) (res IngestResult, err error) {
	res.Dataset = domrepo.DatasetCot
	defer func() { in.metrics.RecordIngest(domrepo.DatasetCot, err) }()

	norm, dropped := positioning.NormalizeDataset(ds)
	for _, c := range dropped {
		res.Dropped = append(res.Dropped, string(c))
	}
	if len(dropped) > 0 {
		in.l.Warn("cot ingest dropped unknown categories", applogger.Strings("categories", res.Dropped))
	}
	for _, assets := range norm {
		res.Rows += len(assets)
	}
	if res.Rows == 0 {
		return res, fmt.Errorf("%w: cot scan has no assets", ErrInvalidInput)
	}

	res.ScanID, err = in.positioning.Save(ctx, norm, in.now())
	if err != nil {
		return res, fmt.Errorf("save cot: %w", err)
	}
	in.invalidate(ctx, domrepo.DatasetCot)
	return res, nil
}

// IngestSentiment stores a sentiment snapshot. A missing scraped_at is
// stamped with the current time; total_symbols is recomputed.
func (in *Ingestor) IngestSentiment(ctx context.Context, ds models.SentimentDataset) (res IngestResult, err error) {
	res.Dataset = domrepo.DatasetSentiment
	defer func() { in.metrics.RecordIngest(domrepo.DatasetSentiment, err) }()

	data := make([]models.SentimentAsset, 0, len(ds.Data))
	for _, a := range ds.Data {
		a.Symbol = strings.TrimSpace(a.Symbol)
		if a.Symbol == "" {
			continue
		}
		data = append(data, a)
	}
	if len(data) == 0 {
		return res, fmt.Errorf("%w: sentiment snapshot has no symbols", ErrInvalidInput)
	}
	ds.Data = data
	ds.TotalSymbols = len(data)
	if ds.ScrapedAt.IsZero() {
		ds.ScrapedAt = in.now()
	}

	res.ScanID, err = in.sentiment.Save(ctx, ds)
	if err != nil {
		return res, fmt.Errorf("save sentiment: %w", err)
	}
	res.Rows = len(data)
	in.invalidate(ctx, domrepo.DatasetSentiment)
	return res, nil
}

// IngestOrderBook flattens and upserts a snapshot by symbol.
func (in *Ingestor) IngestOrderBook(ctx context.Context, snap ScrapedOrderBook) (IngestResult, error) {
	scrapedAt := snap.ScrapedAt.Time
	if scrapedAt.IsZero() {
		scrapedAt = in.now()
	}
	assets := make([]models.OrderBookAsset, 0, len(snap.Data))
	for _, e := range snap.Data {
		if strings.TrimSpace(e.Symbol) == "" {
			continue
		}
		assets = append(assets, e.Asset(scrapedAt))
	}
	return in.SaveOrderBook(ctx, assets)
}

// SaveOrderBook upserts already-flat rows.
func (in *Ingestor) SaveOrderBook(ctx context.Context, assets []models.OrderBookAsset) (res IngestResult, err error) {
	res.Dataset = domrepo.DatasetOrderBook
	defer func() { in.metrics.RecordIngest(domrepo.DatasetOrderBook, err) }()

	if len(assets) == 0 {
		return res, fmt.Errorf("%w: order-book snapshot has no symbols", ErrInvalidInput)
	}
	if err = in.orderbook.Upsert(ctx, assets); err != nil {
		return res, fmt.Errorf("save orderbook: %w", err)
	}
	res.Rows = len(assets)
	in.invalidate(ctx, domrepo.DatasetOrderBook)
	return res, nil
}

func (in *Ingestor) invalidate(ctx context.Context, dataset string) {
	if in.invalidator == nil {
		return
	}
	if err := in.invalidator.Invalidate(ctx, dataset); err != nil {
		in.l.Warn("cache invalidation failed", applogger.String("dataset", dataset), applogger.Error(err))
	}
}

func ptr[T any](v T) *T { return &v }

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
