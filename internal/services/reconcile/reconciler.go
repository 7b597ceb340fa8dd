// Package reconcile joins the positioning, sentiment and order-book datasets
// into one record per configured instrument.
package reconcile

import (
	"GannForce/internal/domain/models"
	"GannForce/internal/services/signals"
)

// Inputs are the already-fetched datasets. Any of them may be nil or empty.
type Inputs struct {
	Positioning models.PositioningDataset
	Sentiment   *models.SentimentDataset
	OrderBook   []models.OrderBookAsset
}

// Reconcile emits exactly one record per instrument, in config order.
// Legs that cannot be matched are left nil.
func Reconcile(instruments []models.InstrumentConfig, in Inputs) []models.ReconciledInstrument {
	out := make([]models.ReconciledInstrument, 0, len(instruments))
	for _, cfg := range instruments {
		out = append(out, reconcileOne(cfg, in))
	}
	return out
}

func reconcileOne(cfg models.InstrumentConfig, in Inputs) models.ReconciledInstrument {
	cot := FindPositioning(in.Positioning, cfg.CotCategory, cfg.CotName)

	var sent *models.SentimentAsset
	if cfg.SentimentSymbol != "" && in.Sentiment != nil {
		sent = FindSentiment(in.Sentiment.Data, cfg.SentimentSymbol)
	}

	var pivot *string
	if cfg.OrderBookSymbol != "" {
		if ob := FindOrderBook(in.OrderBook, cfg.OrderBookSymbol); ob != nil && ob.PositionsPrice != nil {
			p := *ob.PositionsPrice
			pivot = &p
		}
	}

	res := signals.Recommend(cot, sent)
	return models.ReconciledInstrument{
		ID:              cfg.ID,
		Display:         cfg.Display,
		CotAsset:        cot,
		SentimentAsset:  sent,
		PivotPrice:      pivot,
		CotSignal:       res.CotSignal,
		SentimentSignal: res.SentimentSignal,
		Recommendation:  res.Recommendation,
		HasSentiment:    cfg.SentimentSymbol != "",
	}
}

// FindPositioning returns a deep copy of the first asset in category whose
// name equals name exactly, or nil.
func FindPositioning(ds models.PositioningDataset, category models.Category, name string) *models.PositioningAsset {
	for _, a := range ds[category] {
		if a.Name == name {
			found := a.Clone()
			return &found
		}
	}
	return nil
}

// FindSentiment returns a copy of the first asset with symbol, or nil.
func FindSentiment(assets []models.SentimentAsset, symbol string) *models.SentimentAsset {
	for _, a := range assets {
		if a.Symbol == symbol {
			found := a
			return &found
		}
	}
	return nil
}

// FindOrderBook returns the first asset with symbol, or nil. The copy is
// shallow: pointer fields still point into assets.
func FindOrderBook(assets []models.OrderBookAsset, symbol string) *models.OrderBookAsset {
	for _, a := range assets {
		if a.Symbol == symbol {
			found := a
			return &found
		}
	}
	return nil
}
