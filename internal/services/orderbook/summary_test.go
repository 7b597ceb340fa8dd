package orderbook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPct(t *testing.T) {
	assert.Equal(t, 0.0, Pct(5, 0))
	assert.Equal(t, 25.0, Pct(1, 4))
	assert.Equal(t, 33.33, Pct(1, 3))
	assert.Equal(t, 66.67, Pct(2, 3))
	assert.Equal(t, 100.0, Pct(7, 7))
}

func TestSummarizeOrders(t *testing.T) {
	now := time.Date(2025, 2, 12, 10, 0, 0, 0, time.UTC)
	a := Summarize("XAUUSD", &Book{
		CurrentPrice: "2901.5",
		Buy:          []float64{10, 20, 30},
		Sell:         []float64{40},
	}, nil, now)

	assert.Equal(t, "XAUUSD", a.Symbol)
	require.NotNil(t, a.OrdersPrice)
	assert.Equal(t, "2901.5", *a.OrdersPrice)
	assert.Equal(t, 60.0, *a.OrdersBuyPct)
	assert.Equal(t, 40.0, *a.OrdersSellPct)
	assert.Nil(t, a.PositionsPrice)
	assert.Nil(t, a.PositionsLongPct)
	require.NotNil(t, a.ScrapedAt)
	assert.True(t, a.ScrapedAt.Equal(now))
}

func TestSummarizePositions(t *testing.T) {
	a := Summarize("EURUSD", nil, &Book{
		CurrentPrice: "1.0500",
		Prices:       []float64{1.04, 1.05, 1.06},
		Buy:          []float64{30, 10, 20}, // profit 30, loss 10+20
		Sell:         []float64{5, 5, 30},   // loss 5+5, profit 30
	}, time.Now())

	assert.Nil(t, a.OrdersPrice)
	require.NotNil(t, a.PositionsPrice)
	assert.Equal(t, "1.0500", *a.PositionsPrice)
	assert.Equal(t, 60.0, *a.PositionsLongPct)
	assert.Equal(t, 40.0, *a.PositionsShortPct)
	assert.Equal(t, 50.0, *a.PositionsLongProfitPct)
	assert.Equal(t, 50.0, *a.PositionsLongLossPct)
	assert.Equal(t, 75.0, *a.PositionsShortProfit)
	assert.Equal(t, 25.0, *a.PositionsShortLoss)
}

func TestSummarizeEmptyBooks(t *testing.T) {
	a := Summarize("X", &Book{}, &Book{CurrentPrice: "bad"}, time.Now())
	assert.Nil(t, a.OrdersPrice)
	assert.Equal(t, 0.0, *a.OrdersBuyPct)
	assert.Equal(t, 0.0, *a.PositionsLongPct)
	assert.Equal(t, 0.0, *a.PositionsShortProfit)
}

func TestSummarizeRaggedArrays(t *testing.T) {
	a := Summarize("X", nil, &Book{
		CurrentPrice: "100",
		Prices:       []float64{90, 110},
		Buy:          []float64{10},
	}, time.Now())
	assert.Equal(t, 100.0, *a.PositionsLongPct)
	assert.Equal(t, 100.0, *a.PositionsLongProfitPct)
}
