package models

import "time"

// OrderBookAsset is the FastBull order/position split for one symbol.
// Every field except Symbol may be missing.
type OrderBookAsset struct {
	Symbol                 string     `json:"symbol"`
	OrdersPrice            *string    `json:"orders_price"`
	OrdersBuyPct           *float64   `json:"orders_buy_pct"`
	OrdersSellPct          *float64   `json:"orders_sell_pct"`
	PositionsPrice         *string    `json:"positions_price"`
	PositionsLongPct       *float64   `json:"positions_long_pct"`
	PositionsShortPct      *float64   `json:"positions_short_pct"`
	PositionsLongProfitPct *float64   `json:"positions_long_profit_pct"`
	PositionsLongLossPct   *float64   `json:"positions_long_loss_pct"`
	PositionsShortProfit   *float64   `json:"positions_short_profit_pct"`
	PositionsShortLoss     *float64   `json:"positions_short_loss_pct"`
	ScrapedAt              *time.Time `json:"scraped_at"`
}

// OrderBookSnapshot is the payload produced by one collection pass.
type OrderBookSnapshot struct {
	Source       string           `json:"source"`
	ScrapedAt    time.Time        `json:"scraped_at"`
	TotalSymbols int              `json:"total_symbols"`
	Data         []OrderBookAsset `json:"data"`
}

// LatestScrapedAt returns the most recent ScrapedAt among assets, or nil.
func LatestScrapedAt(assets []OrderBookAsset) *time.Time {
	var latest *time.Time
	for i := range assets {
		ts := assets[i].ScrapedAt
		if ts == nil {
			continue
		}
		if latest == nil || ts.After(*latest) {
			t := *ts
			latest = &t
		}
	}
	return latest
}
