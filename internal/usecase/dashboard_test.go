package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GannForce/internal/domain/models"
	domrepo "GannForce/internal/domain/repository"
	applogger "GannForce/pkg/logger"
)

var testInstruments = []models.InstrumentConfig{
	{ID: "GOLD", Display: "Gold", CotName: "GOLD", CotCategory: models.CategoryMetals, SentimentSymbol: "XAUUSD", OrderBookSymbol: "XAUUSD"},
	{ID: "SP500", Display: "S&P 500", CotName: "E-MINI S&P 500", CotCategory: models.CategoryIndexes},
}

func goldSnapshot() *models.PositioningSnapshot {
	return &models.PositioningSnapshot{
		ScanID:     "scan-1",
		ReportDate: "2025-02-11",
		Data: models.PositioningDataset{
			models.CategoryMetals: {{Name: "GOLD", UnfulfilledCalls: fptr(12.5)}},
		},
	}
}

func TestDashboardAllLegs(t *testing.T) {
	now := time.Date(2025, 2, 12, 12, 0, 0, 0, time.UTC)
	m := newFakeMetrics()
	uc := NewDashboardUseCase(
		&fakePositioning{snap: goldSnapshot()},
		&fakeSentiment{ds: &models.SentimentDataset{
			Source:    "myfxbook.com",
			ScrapedAt: now.Add(-125 * time.Minute),
			Data:      []models.SentimentAsset{{Symbol: "XAUUSD", ShortPct: 88, LongPct: 12}},
		}},
		&fakeOrderBook{rows: []models.OrderBookAsset{{Symbol: "XAUUSD", PositionsPrice: sptr("2901.5")}}},
		testInstruments, m, applogger.Nop(),
	)
	uc.now = func() time.Time { return now }

	d, err := uc.Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, d.Errors)
	assert.Equal(t, "2025-02-11", d.ReportDate)
	assert.Equal(t, "myfxbook.com", d.SentimentSource)
	assert.Equal(t, "2h 5m ago", d.SentimentAge)
	require.Len(t, d.Instruments, 2)

	gold := d.Instruments[0]
	assert.Equal(t, models.StrongBuy, gold.Recommendation)
	assert.Equal(t, "Strong Buy", gold.RecommendationLabel)
	assert.Equal(t, "Strong Short", gold.SentimentSignalLabel)
	require.NotNil(t, gold.PivotPrice)
	assert.Equal(t, "2901.5", *gold.PivotPrice)

	sp := d.Instruments[1]
	assert.Nil(t, sp.CotAsset)
	assert.Equal(t, models.Neutral, sp.Recommendation)
	assert.Equal(t, 1, m.recs["strong_buy"])
}

func TestDashboardFailedLegDoesNotAbort(t *testing.T) {
	m := newFakeMetrics()
	uc := NewDashboardUseCase(
		&fakePositioning{snap: goldSnapshot()},
		&fakeSentiment{err: errors.New("sentiment file unreadable")},
		&fakeOrderBook{err: domrepo.ErrNoScan},
		testInstruments, m, applogger.Nop(),
	)

	d, err := uc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"sentiment": "sentiment file unreadable"}, d.Errors)
	assert.Equal(t, 1, m.fetchErrs["sentiment"])
	assert.Zero(t, m.fetchErrs["orderbook"])

	require.Len(t, d.Instruments, 2)
	gold := d.Instruments[0]
	assert.NotNil(t, gold.CotAsset)
	assert.Nil(t, gold.SentimentAsset)
	assert.Equal(t, models.LeanBuy, gold.Recommendation)
	assert.Empty(t, gold.SentimentSignalLabel)
}

func TestDashboardNoData(t *testing.T) {
	uc := NewDashboardUseCase(
		&fakePositioning{err: domrepo.ErrNoScan},
		&fakeSentiment{err: domrepo.ErrNoScan},
		&fakeOrderBook{},
		testInstruments, newFakeMetrics(), applogger.Nop(),
	)
	d, err := uc.Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, d.Errors)
	assert.Empty(t, d.ReportDate)
	assert.Nil(t, d.SentimentScrapedAt)
	require.Len(t, d.Instruments, 2)
	for _, in := range d.Instruments {
		assert.Equal(t, models.Neutral, in.Recommendation)
	}
}

func TestDashboardCallerCancelled(t *testing.T) {
	m := newFakeMetrics()
	uc := NewDashboardUseCase(
		&fakePositioning{snap: goldSnapshot()},
		&fakeSentiment{},
		&fakeOrderBook{},
		testInstruments, m, applogger.Nop(),
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d, err := uc.Get(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, d)
}
