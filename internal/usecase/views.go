package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"GannForce/internal/domain/models"
	domrepo "GannForce/internal/domain/repository"
	"GannForce/internal/services/signals"
	"GannForce/pkg/util"
)

// ErrInvalidInput wraps bad query parameters and empty ingest payloads.
var ErrInvalidInput = errors.New("invalid query")

// Sort orders.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// CategoryGroup is one COT category with its assets in scan order.
type CategoryGroup struct {
	Category models.Category           `json:"category"`
	Assets   []models.PositioningAsset `json:"assets"`
}

type CotView struct {
	ScanID     string          `json:"scan_id,omitempty"`
	ReportDate string          `json:"report_date"`
	Categories []CategoryGroup `json:"categories"`
}

type SentimentRow struct {
	models.SentimentAsset
	Signal      models.SentimentSignal `json:"signal"`
	SignalLabel string                 `json:"signal_label"`
}

type SentimentView struct {
	Source    string         `json:"source"`
	ScrapedAt *time.Time     `json:"scraped_at"`
	Age       string         `json:"age"`
	Counts    map[string]int `json:"counts"`
	Rows      []SentimentRow `json:"rows"`
}

// SentimentQuery filters and sorts the sentiment table.
// Filter is "all" or a signal; Sort is symbol|short_pct|long_pct|signal.
type SentimentQuery struct {
	Filter string `query:"filter" default:"all" validate:"sentiment_filter"`
	Sort   string `query:"sort" default:"symbol" validate:"oneof=symbol short_pct long_pct signal"`
	Order  string `query:"order" validate:"omitempty,oneof=asc desc"`
}

type OrderBookView struct {
	ScrapedAt *time.Time              `json:"scraped_at"`
	Age       string                  `json:"age"`
	Rows      []models.OrderBookAsset `json:"rows"`
}

// OrderBookQuery sorts the order-book table.
type OrderBookQuery struct {
	Sort  string `query:"sort" default:"symbol" validate:"oneof=symbol orders_buy positions_long long_profit short_profit"`
	Order string `query:"order" validate:"omitempty,oneof=asc desc"`
}

// ViewsUseCase serves the per-dataset pages.
type ViewsUseCase struct {
	positioning domrepo.PositioningStore
	sentiment   domrepo.SentimentSource
	orderbook   domrepo.OrderBookStore
	now         func() time.Time
}

func NewViewsUseCase(positioning domrepo.PositioningStore, sentiment domrepo.SentimentSource, orderbook domrepo.OrderBookStore) *ViewsUseCase {
	return &ViewsUseCase{positioning: positioning, sentiment: sentiment, orderbook: orderbook, now: time.Now}
}

// Cot groups the latest scan by category in display order. Empty
// categories are omitted.
func (uc *ViewsUseCase) Cot(ctx context.Context) (*CotView, error) {
	snap, err := uc.positioning.Latest(ctx)
	if errors.Is(err, domrepo.ErrNoScan) {
		return &CotView{Categories: []CategoryGroup{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return GroupCot(snap), nil
}

// GroupCot orders a snapshot's categories for display.
func GroupCot(snap *models.PositioningSnapshot) *CotView {
	v := &CotView{ScanID: snap.ScanID, ReportDate: snap.ReportDate, Categories: []CategoryGroup{}}
	for _, cat := range models.CategoryOrder {
		if assets := snap.Data[cat]; len(assets) > 0 {
			v.Categories = append(v.Categories, CategoryGroup{Category: cat, Assets: assets})
		}
	}
	return v
}

func (uc *ViewsUseCase) Sentiment(ctx context.Context, q SentimentQuery) (*SentimentView, error) {
	ds, err := uc.sentiment.Latest(ctx)
	if errors.Is(err, domrepo.ErrNoScan) {
		ds, err = nil, nil
	}
	if err != nil {
		return nil, err
	}
	return BuildSentimentView(ds, q, uc.now())
}

// BuildSentimentView classifies, counts, filters and sorts. Counts cover
// every row regardless of the filter.
func BuildSentimentView(ds *models.SentimentDataset, q SentimentQuery, now time.Time) (*SentimentView, error) {
	filter := q.Filter
	if filter == "" {
		filter = "all"
	}
	if filter != "all" && !validSignal(models.SentimentSignal(filter)) {
		return nil, fmt.Errorf("%w: unknown filter %q", ErrInvalidInput, filter)
	}
	sortKey := q.Sort
	if sortKey == "" {
		sortKey = "symbol"
	}
	order, err := resolveOrder(q.Order, sortKey == "symbol")
	if err != nil {
		return nil, err
	}

	var less func(a, b SentimentRow) bool
	switch sortKey {
	case "symbol":
		less = func(a, b SentimentRow) bool { return strings.Compare(a.Symbol, b.Symbol) < 0 }
	case "short_pct":
		less = func(a, b SentimentRow) bool { return a.ShortPct < b.ShortPct }
	case "long_pct":
		less = func(a, b SentimentRow) bool { return a.LongPct < b.LongPct }
	case "signal":
		less = func(a, b SentimentRow) bool { return signalRank(a.Signal) < signalRank(b.Signal) }
	default:
		return nil, fmt.Errorf("%w: unknown sort %q", ErrInvalidInput, sortKey)
	}

	v := &SentimentView{Counts: map[string]int{"all": 0}, Rows: []SentimentRow{}}
	for _, s := range models.SentimentSignals {
		v.Counts[string(s)] = 0
	}
	if ds == nil {
		return v, nil
	}
	v.Source = ds.Source
	if !ds.ScrapedAt.IsZero() {
		ts := ds.ScrapedAt
		v.ScrapedAt = &ts
		v.Age = util.Ago(ts, now)
	}

	for _, a := range ds.Data {
		sig := signals.ClassifySentiment(a)
		v.Counts["all"]++
		v.Counts[string(sig)]++
		if filter != "all" && string(sig) != filter {
			continue
		}
		v.Rows = append(v.Rows, SentimentRow{SentimentAsset: a, Signal: sig, SignalLabel: sig.Label()})
	}

	sort.SliceStable(v.Rows, func(i, j int) bool {
		if order == OrderDesc {
			return less(v.Rows[j], v.Rows[i])
		}
		return less(v.Rows[i], v.Rows[j])
	})
	return v, nil
}

func (uc *ViewsUseCase) OrderBook(ctx context.Context, q OrderBookQuery) (*OrderBookView, error) {
	rows, err := uc.orderbook.All(ctx)
	if err != nil && !errors.Is(err, domrepo.ErrNoScan) {
		return nil, err
	}
	return BuildOrderBookView(rows, q, uc.now())
}

// BuildOrderBookView sorts rows; missing percentages sort as 0.
func BuildOrderBookView(rows []models.OrderBookAsset, q OrderBookQuery, now time.Time) (*OrderBookView, error) {
	sortKey := q.Sort
	if sortKey == "" {
		sortKey = "symbol"
	}
	order, err := resolveOrder(q.Order, sortKey == "symbol")
	if err != nil {
		return nil, err
	}

	var key func(models.OrderBookAsset) float64
	switch sortKey {
	case "symbol":
	case "orders_buy":
		key = func(a models.OrderBookAsset) float64 { return orZero(a.OrdersBuyPct) }
	case "positions_long":
		key = func(a models.OrderBookAsset) float64 { return orZero(a.PositionsLongPct) }
	case "long_profit":
		key = func(a models.OrderBookAsset) float64 { return orZero(a.PositionsLongProfitPct) }
	case "short_profit":
		key = func(a models.OrderBookAsset) float64 { return orZero(a.PositionsShortProfit) }
	default:
		return nil, fmt.Errorf("%w: unknown sort %q", ErrInvalidInput, sortKey)
	}

	out := append([]models.OrderBookAsset{}, rows...)
	less := func(a, b models.OrderBookAsset) bool {
		if key == nil {
			return a.Symbol < b.Symbol
		}
		return key(a) < key(b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if order == OrderDesc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})

	v := &OrderBookView{Rows: out}
	if ts := models.LatestScrapedAt(out); ts != nil {
		v.ScrapedAt = ts
		v.Age = util.Ago(*ts, now)
	}
	return v, nil
}

// resolveOrder defaults to ascending for text keys and descending for
// numeric ones.
func resolveOrder(order string, textKey bool) (string, error) {
	switch order {
	case OrderAsc, OrderDesc:
		return order, nil
	case "":
		if textKey {
			return OrderAsc, nil
		}
		return OrderDesc, nil
	}
	return "", fmt.Errorf("%w: unknown order %q", ErrInvalidInput, order)
}

func signalRank(s models.SentimentSignal) int {
	for i, k := range models.SentimentSignals {
		if k == s {
			return i
		}
	}
	return len(models.SentimentSignals)
}

func validSignal(s models.SentimentSignal) bool {
	return signalRank(s) < len(models.SentimentSignals)
}

func orZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
