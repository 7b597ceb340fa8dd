package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"GannForce/internal/domain/models"
	domrepo "GannForce/internal/domain/repository"
	"GannForce/internal/services/reconcile"
	applogger "GannForce/pkg/logger"
	"GannForce/pkg/util"
)

// InstrumentView is a reconciled instrument plus display labels.
type InstrumentView struct {
	models.ReconciledInstrument
	RecommendationLabel  string `json:"recommendation_label"`
	SentimentSignalLabel string `json:"sentiment_signal_label,omitempty"`
}

// Dashboard is the reconciled view of every configured instrument.
type Dashboard struct {
	Instruments        []InstrumentView  `json:"instruments"`
	ReportDate         string            `json:"report_date"`
	SentimentSource    string            `json:"sentiment_source"`
	SentimentScrapedAt *time.Time        `json:"sentiment_scraped_at"`
	SentimentAge       string            `json:"sentiment_age"`
	Errors             map[string]string `json:"errors,omitempty"`
}

// DashboardUseCase loads the three datasets concurrently and reconciles them.
type DashboardUseCase struct {
	positioning domrepo.PositioningStore
	sentiment   domrepo.SentimentSource
	orderbook   domrepo.OrderBookStore
	instruments []models.InstrumentConfig
	metrics     domrepo.Metrics
	l           *applogger.Logger
	timeout     time.Duration
	now         func() time.Time
}

func NewDashboardUseCase(
	positioning domrepo.PositioningStore,
	sentiment domrepo.SentimentSource,
	orderbook domrepo.OrderBookStore,
	instruments []models.InstrumentConfig,
	metrics domrepo.Metrics,
	l *applogger.Logger,
) *DashboardUseCase {
	return &DashboardUseCase{
		positioning: positioning,
		sentiment:   sentiment,
		orderbook:   orderbook,
		instruments: instruments,
		metrics:     metrics,
		l:           l,
		timeout:     10 * time.Second,
		now:         time.Now,
	}
}

// Datasets are the three legs as loaded, with per-leg errors.
type Datasets struct {
	Positioning *models.PositioningSnapshot
	Sentiment   *models.SentimentDataset
	OrderBook   []models.OrderBookAsset
	Errors      map[string]string
}

// Load fetches every leg concurrently. A failed leg is recorded in Errors
// and left empty; it never cancels the others. A leg with no stored scan is
// empty without an error. The returned error is set only when parent itself
// is cancelled or past its deadline.
func (uc *DashboardUseCase) Load(parent context.Context) (*Datasets, error) {
	ctx, cancel := context.WithTimeout(parent, uc.timeout)
	defer cancel()

	var (
		g  errgroup.Group
		mu sync.Mutex
		ds = &Datasets{Errors: map[string]string{}}
	)
	record := func(leg string, start time.Time, err error) {
		if errors.Is(err, domrepo.ErrNoScan) {
			err = nil
		}
		uc.metrics.ObserveFetch(leg, time.Since(start), err)
		if err == nil {
			return
		}
		uc.l.Warn("dataset fetch failed", applogger.String("leg", leg), applogger.Error(err))
		mu.Lock()
		ds.Errors[leg] = err.Error()
		mu.Unlock()
	}

	g.Go(func() error {
		start := time.Now()
		v, err := uc.positioning.Latest(ctx)
		ds.Positioning = v
		record(domrepo.DatasetCot, start, err)
		return parent.Err()
	})
	g.Go(func() error {
		start := time.Now()
		v, err := uc.sentiment.Latest(ctx)
		ds.Sentiment = v
		record(domrepo.DatasetSentiment, start, err)
		return parent.Err()
	})
	g.Go(func() error {
		start := time.Now()
		v, err := uc.orderbook.All(ctx)
		ds.OrderBook = v
		record(domrepo.DatasetOrderBook, start, err)
		return parent.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(ds.Errors) == 0 {
		ds.Errors = nil
	}
	return ds, nil
}

// Get loads the datasets and reconciles every configured instrument.
func (uc *DashboardUseCase) Get(ctx context.Context) (*Dashboard, error) {
	ds, err := uc.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load datasets: %w", err)
	}

	in := reconcile.Inputs{Sentiment: ds.Sentiment, OrderBook: ds.OrderBook}
	res := &Dashboard{Errors: ds.Errors}
	if ds.Positioning != nil {
		in.Positioning = ds.Positioning.Data
		res.ReportDate = ds.Positioning.ReportDate
	}
	if ds.Sentiment != nil {
		res.SentimentSource = ds.Sentiment.Source
		if !ds.Sentiment.ScrapedAt.IsZero() {
			ts := ds.Sentiment.ScrapedAt
			res.SentimentScrapedAt = &ts
			res.SentimentAge = util.Ago(ts, uc.now())
		}
	}

	rows := reconcile.Reconcile(uc.instruments, in)
	res.Instruments = make([]InstrumentView, 0, len(rows))
	for _, r := range rows {
		uc.metrics.RecordRecommendation(string(r.Recommendation))
		v := InstrumentView{ReconciledInstrument: r, RecommendationLabel: r.Recommendation.Label()}
		if r.SentimentSignal != nil {
			v.SentimentSignalLabel = r.SentimentSignal.Label()
		}
		res.Instruments = append(res.Instruments, v)
	}
	return res, nil
}
