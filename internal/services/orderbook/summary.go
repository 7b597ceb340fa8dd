// Package orderbook turns raw FastBull books into percentage summaries.
package orderbook

import (
	"time"

	"github.com/shopspring/decimal"

	"GannForce/internal/domain/models"
	"GannForce/internal/services/positioning"
)

// Book is one side of the FastBull payload: either pending orders or open
// positions, bucketed by price level.
type Book struct {
	CurrentPrice string
	Prices       []float64
	Buy          []float64
	Sell         []float64
}

// Pct returns v/total as a percentage with two decimals, or 0 when total is 0.
func Pct(v, total float64) float64 {
	if total <= 0 {
		return 0
	}
	d := decimal.NewFromFloat(v).Div(decimal.NewFromFloat(total)).Shift(2)
	out, _ := positioning.RoundHalfUp(d, 2).Float64()
	return out
}

// Summarize builds the asset for symbol from its order and position books.
// A nil book leaves its fields nil.
func Summarize(symbol string, orders, positions *Book, scrapedAt time.Time) models.OrderBookAsset {
	a := models.OrderBookAsset{Symbol: symbol, ScrapedAt: &scrapedAt}

	if orders != nil {
		buy, sell := sum(orders.Buy), sum(orders.Sell)
		total := buy + sell
		a.OrdersPrice = strPtr(orders.CurrentPrice)
		a.OrdersBuyPct = floatPtr(Pct(buy, total))
		a.OrdersSellPct = floatPtr(Pct(sell, total))
	}

	if positions != nil {
		s := splitPositions(positions)
		totalLong := s.longProfit + s.longLoss
		totalShort := s.shortProfit + s.shortLoss
		total := totalLong + totalShort

		a.PositionsPrice = strPtr(positions.CurrentPrice)
		a.PositionsLongPct = floatPtr(Pct(totalLong, total))
		a.PositionsShortPct = floatPtr(Pct(totalShort, total))
		a.PositionsLongProfitPct = floatPtr(Pct(s.longProfit, totalLong))
		a.PositionsLongLossPct = floatPtr(Pct(s.longLoss, totalLong))
		a.PositionsShortProfit = floatPtr(Pct(s.shortProfit, totalShort))
		a.PositionsShortLoss = floatPtr(Pct(s.shortLoss, totalShort))
	}
	return a
}

type positionSplit struct {
	longProfit, longLoss, shortProfit, shortLoss float64
}

// splitPositions classifies each price level against the current price.
// A long entered below the current price is in profit; a short entered
// above it is in profit. Entries at the current price count as losses.
func splitPositions(b *Book) positionSplit {
	var s positionSplit
	cp := parseFloat(b.CurrentPrice)
	for i, price := range b.Prices {
		buy := at(b.Buy, i)
		sell := at(b.Sell, i)
		if buy > 0 {
			if price < cp {
				s.longProfit += buy
			} else {
				s.longLoss += buy
			}
		}
		if sell > 0 {
			if price > cp {
				s.shortProfit += sell
			} else {
				s.shortLoss += sell
			}
		}
	}
	return s
}

func sum(xs []float64) float64 {
	var t float64
	for _, x := range xs {
		t += x
	}
	return t
}

func at(xs []float64, i int) float64 {
	if i < len(xs) {
		return xs[i]
	}
	return 0
}

func parseFloat(s string) float64 {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func floatPtr(v float64) *float64 { return &v }
