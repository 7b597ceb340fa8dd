package positioning

import (
	"github.com/shopspring/decimal"

	"GannForce/internal/domain/models"
)

// UnfulfilledCalls returns net / (|chgLong| - |chgShort|) rounded to two
// decimals, or nil when any input is missing or the denominator is zero.
func UnfulfilledCalls(net, chgLong, chgShort *int64) *float64 {
	if net == nil || chgLong == nil || chgShort == nil {
		return nil
	}
	denom := abs(*chgLong) - abs(*chgShort)
	if denom == 0 {
		return nil
	}
	q := decimal.NewFromInt(*net).DivRound(decimal.NewFromInt(denom), 8)
	v, _ := RoundHalfUp(q, 2).Float64()
	return &v
}

// RoundHalfUp rounds d to places decimals with ties going toward +Inf.
func RoundHalfUp(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Shift(places).Add(decimal.NewFromFloat(0.5)).Floor().Shift(-places)
}

// Normalize recomputes the derived fields of a scraped asset. Net is nil
// unless both long and short are known.
func Normalize(a models.PositioningAsset) models.PositioningAsset {
	a.NonCommercial.Net = nil
	if l, s := a.NonCommercial.Long, a.NonCommercial.Short; l != nil && s != nil {
		net := *l - *s
		a.NonCommercial.Net = &net
	}
	a.UnfulfilledCalls = UnfulfilledCalls(a.NonCommercial.Net, a.Changes.Long, a.Changes.Short)
	return a
}

// NormalizeDataset normalizes every asset and stamps its category.
// Categories outside the fixed nine are dropped.
func NormalizeDataset(ds models.PositioningDataset) (models.PositioningDataset, []models.Category) {
	out := make(models.PositioningDataset, len(ds))
	var dropped []models.Category
	for cat, assets := range ds {
		if !models.IsValidCategory(cat) {
			dropped = append(dropped, cat)
			continue
		}
		norm := make([]models.PositioningAsset, 0, len(assets))
		for _, a := range assets {
			a.Category = cat
			norm = append(norm, Normalize(a))
		}
		out[cat] = norm
	}
	return out, dropped
}

// ReportDate returns the first non-empty report date in category order.
func ReportDate(ds models.PositioningDataset) string {
	for _, cat := range models.CategoryOrder {
		for _, a := range ds[cat] {
			if a.ReportDate != "" {
				return a.ReportDate
			}
		}
	}
	return ""
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
