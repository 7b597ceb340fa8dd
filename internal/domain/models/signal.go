package models

// CotSignal is the sign of a contract's unfulfilled calls.
type CotSignal string

const (
	CotBullish CotSignal = "bullish"
	CotBearish CotSignal = "bearish"
	CotNeutral CotSignal = "neutral"
)

// SentimentSignal is the classified retail positioning of a symbol.
type SentimentSignal string

const (
	SentimentStrongLong  SentimentSignal = "strong_long"
	SentimentSell        SentimentSignal = "sell"
	SentimentNeutral     SentimentSignal = "neutral"
	SentimentBuy         SentimentSignal = "buy"
	SentimentStrongShort SentimentSignal = "strong_short"
)

// SentimentSignals lists every sentiment signal in table order.
var SentimentSignals = []SentimentSignal{
	SentimentStrongLong,
	SentimentBuy,
	SentimentNeutral,
	SentimentSell,
	SentimentStrongShort,
}

// Label returns the display label.
func (s SentimentSignal) Label() string {
	switch s {
	case SentimentStrongLong:
		return "Strong Long"
	case SentimentStrongShort:
		return "Strong Short"
	case SentimentBuy:
		return "Buy"
	case SentimentSell:
		return "Sell"
	case SentimentNeutral:
		return "Neutral"
	}
	return string(s)
}

// Recommendation is the 7-point trading bias.
type Recommendation string

const (
	StrongBuy  Recommendation = "strong_buy"
	Buy        Recommendation = "buy"
	LeanBuy    Recommendation = "lean_buy"
	Neutral    Recommendation = "neutral"
	LeanSell   Recommendation = "lean_sell"
	Sell       Recommendation = "sell"
	StrongSell Recommendation = "strong_sell"
)

// Recommendations lists the scale from most bearish to most bullish.
var Recommendations = []Recommendation{StrongSell, Sell, LeanSell, Neutral, LeanBuy, Buy, StrongBuy}

// Label returns the display label.
func (r Recommendation) Label() string {
	switch r {
	case StrongBuy:
		return "Strong Buy"
	case Buy:
		return "Buy"
	case LeanBuy:
		return "Lean Buy"
	case Neutral:
		return "Neutral"
	case LeanSell:
		return "Lean Sell"
	case Sell:
		return "Sell"
	case StrongSell:
		return "Strong Sell"
	}
	return string(r)
}
