package models

import "time"

// SentimentAsset is the retail trader split for one symbol.
// ShortPct and LongPct are independent trader-count percentages.
type SentimentAsset struct {
	Symbol   string  `json:"symbol"`
	ShortPct float64 `json:"short_pct"`
	LongPct  float64 `json:"long_pct"`
}

// SentimentDataset is one sentiment scan.
type SentimentDataset struct {
	Source       string           `json:"source"`
	ScrapedAt    time.Time        `json:"scraped_at"`
	TotalSymbols int              `json:"total_symbols"`
	Data         []SentimentAsset `json:"data"`
}
