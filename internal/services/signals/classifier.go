package signals

import "GannForce/internal/domain/models"

// Sentiment thresholds in percent. Both bounds are inclusive.
const (
	StrongThreshold     = 85.0
	ContrarianThreshold = 55.0
)

// ClassifyCot maps unfulfilled calls to a COT signal by sign only.
func ClassifyCot(unfulfilled *float64) models.CotSignal {
	if unfulfilled == nil || *unfulfilled == 0 {
		return models.CotNeutral
	}
	if *unfulfilled > 0 {
		return models.CotBullish
	}
	return models.CotBearish
}

// ClassifySentiment applies the threshold rules in priority order.
// Extremes follow the crowd; the mid band is read contrarian.
func ClassifySentiment(a models.SentimentAsset) models.SentimentSignal {
	switch {
	case a.ShortPct >= StrongThreshold:
		return models.SentimentStrongShort
	case a.LongPct >= StrongThreshold:
		return models.SentimentStrongLong
	case a.ShortPct >= ContrarianThreshold:
		return models.SentimentBuy
	case a.LongPct >= ContrarianThreshold:
		return models.SentimentSell
	default:
		return models.SentimentNeutral
	}
}
