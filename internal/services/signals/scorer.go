package signals

import "GannForce/internal/domain/models"

const (
	minScore = -3
	maxScore = 3
)

var scoreToRecommendation = map[int]models.Recommendation{
	3:  models.StrongBuy,
	2:  models.Buy,
	1:  models.LeanBuy,
	0:  models.Neutral,
	-1: models.LeanSell,
	-2: models.Sell,
	-3: models.StrongSell,
}

// cotOnly is used when an instrument has no sentiment asset. It is kept
// apart from the combined table so either can change on its own.
var cotOnly = map[models.CotSignal]models.Recommendation{
	models.CotBullish: models.LeanBuy,
	models.CotNeutral: models.Neutral,
	models.CotBearish: models.LeanSell,
}

// Result is the outcome of scoring one instrument.
type Result struct {
	CotSignal       models.CotSignal
	SentimentSignal *models.SentimentSignal
	Recommendation  models.Recommendation
}

// CotScore is the COT contribution to the combined score.
func CotScore(s models.CotSignal) int {
	switch s {
	case models.CotBullish:
		return 1
	case models.CotBearish:
		return -1
	default:
		return 0
	}
}

// SentimentScore is the sentiment contribution to the combined score.
func SentimentScore(s models.SentimentSignal) int {
	switch s {
	case models.SentimentStrongShort:
		return 2
	case models.SentimentBuy:
		return 1
	case models.SentimentSell:
		return -1
	case models.SentimentStrongLong:
		return -2
	default:
		return 0
	}
}

// Score combines both signals and maps the clamped sum onto the scale.
func Score(cot models.CotSignal, sentiment models.SentimentSignal) models.Recommendation {
	return fromScore(CotScore(cot) + SentimentScore(sentiment))
}

// CotOnly returns the dampened recommendation for instruments without sentiment.
func CotOnly(cot models.CotSignal) models.Recommendation {
	if r, ok := cotOnly[cot]; ok {
		return r
	}
	return models.Neutral
}

// Recommend classifies and scores a matched positioning/sentiment pair.
// Either side may be nil.
func Recommend(cot *models.PositioningAsset, sentiment *models.SentimentAsset) Result {
	var unfulfilled *float64
	if cot != nil {
		unfulfilled = cot.UnfulfilledCalls
	}
	cs := ClassifyCot(unfulfilled)

	if sentiment == nil {
		return Result{CotSignal: cs, Recommendation: CotOnly(cs)}
	}

	ss := ClassifySentiment(*sentiment)
	return Result{
		CotSignal:       cs,
		SentimentSignal: &ss,
		Recommendation:  Score(cs, ss),
	}
}

func fromScore(score int) models.Recommendation {
	if score > maxScore {
		score = maxScore
	}
	if score < minScore {
		score = minScore
	}
	return scoreToRecommendation[score]
}
