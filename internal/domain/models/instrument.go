package models

// InstrumentConfig maps one dashboard instrument onto the three datasets.
// Empty SentimentSymbol or OrderBookSymbol means the leg is not tracked.
type InstrumentConfig struct {
	ID              string   `yaml:"id" json:"id" validate:"required"`
	Display         string   `yaml:"display" json:"display" validate:"required"`
	CotName         string   `yaml:"cot_name" json:"cot_name" validate:"required"`
	CotCategory     Category `yaml:"cot_category" json:"cot_category" validate:"required,cot_category"`
	SentimentSymbol string   `yaml:"sentiment_symbol" json:"sentiment_symbol,omitempty"`
	OrderBookSymbol string   `yaml:"orderbook_symbol" json:"orderbook_symbol,omitempty"`
}

// DefaultInstruments is used when the configuration lists none.
func DefaultInstruments() []InstrumentConfig {
	return []InstrumentConfig{
		{ID: "SP500", Display: "S&P 500", CotName: "E-MINI S&P 500", CotCategory: CategoryIndexes, OrderBookSymbol: "US500"},
		{ID: "GOLD", Display: "Gold", CotName: "GOLD", CotCategory: CategoryMetals, SentimentSymbol: "XAUUSD", OrderBookSymbol: "XAUUSD"},
		{ID: "EURUSD", Display: "EUR/USD", CotName: "EURO FX", CotCategory: CategoryCurrencies, SentimentSymbol: "EURUSD", OrderBookSymbol: "EURUSD"},
		{ID: "OIL", Display: "Crude Oil", CotName: "CRUDE OIL, LIGHT SWEET", CotCategory: CategoryEnergies, OrderBookSymbol: "USOIL"},
		{ID: "SILVER", Display: "Silver", CotName: "SILVER", CotCategory: CategoryMetals, SentimentSymbol: "XAGUSD", OrderBookSymbol: "XAGUSD"},
	}
}

// ReconciledInstrument is the per-instrument join of all datasets.
type ReconciledInstrument struct {
	ID              string            `json:"id"`
	Display         string            `json:"display"`
	CotAsset        *PositioningAsset `json:"cot_asset"`
	SentimentAsset  *SentimentAsset   `json:"sentiment_asset"`
	PivotPrice      *string           `json:"pivot_price"`
	CotSignal       CotSignal         `json:"cot_signal"`
	SentimentSignal *SentimentSignal  `json:"sentiment_signal"`
	Recommendation  Recommendation    `json:"recommendation"`
	HasSentiment    bool              `json:"has_sentiment"`
}
