package models

// Category is one of the fixed COT report groupings.
type Category string

const (
	CategoryCurrencies       Category = "Currencies"
	CategoryCryptocurrencies Category = "Cryptocurrencies"
	CategoryIndexes          Category = "Indexes"
	CategoryTreasuries       Category = "Treasuries and Rates"
	CategoryEnergies         Category = "Energies"
	CategoryGrains           Category = "Grains"
	CategoryLivestock        Category = "Livestock & Dairy"
	CategoryMetals           Category = "Metals"
	CategorySofts            Category = "Softs"
)

// CategoryOrder is the display order used by the COT page.
var CategoryOrder = []Category{
	CategoryIndexes,
	CategoryMetals,
	CategoryCurrencies,
	CategoryCryptocurrencies,
	CategoryEnergies,
	CategoryTreasuries,
	CategoryGrains,
	CategoryLivestock,
	CategorySofts,
}

// IsValidCategory reports whether c is one of the nine report categories.
func IsValidCategory(c Category) bool {
	for _, k := range CategoryOrder {
		if k == c {
			return true
		}
	}
	return false
}

// PositionTuple holds non-commercial long/short/spreads figures. A nil
// field is a cell the scraper could not parse.
type PositionTuple struct {
	Long    *int64 `json:"long"`
	Short   *int64 `json:"short"`
	Spreads *int64 `json:"spreads"`
	Net     *int64 `json:"net"`
}

// ChangeTuple holds period changes of the non-commercial positions.
type ChangeTuple struct {
	Long    *int64 `json:"long"`
	Short   *int64 `json:"short"`
	Spreads *int64 `json:"spreads"`
}

// PctTuple holds positions as percent of open interest.
type PctTuple struct {
	Long    *float64 `json:"long"`
	Short   *float64 `json:"short"`
	Spreads *float64 `json:"spreads"`
}

// PositioningAsset is one futures contract of one COT report.
type PositioningAsset struct {
	Code                 string        `json:"code"`
	Name                 string        `json:"name"`
	Category             Category      `json:"category,omitempty"`
	ReportDate           string        `json:"report_date"`
	Contract             string        `json:"contract"`
	ContractUnit         string        `json:"contract_unit,omitempty"`
	OpenInterest         *int64        `json:"open_interest"`
	ChangeInOpenInterest *int64        `json:"change_in_open_interest"`
	NonCommercial        PositionTuple `json:"non_commercial"`
	Changes              ChangeTuple   `json:"changes"`
	PctOfOpenInterest    PctTuple      `json:"pct_of_open_interest"`
	UnfulfilledCalls     *float64      `json:"unfulfilled_calls"`
}

// Clone returns a copy of a that shares no pointers with it.
func (a PositioningAsset) Clone() PositioningAsset {
	a.OpenInterest = clonePtr(a.OpenInterest)
	a.ChangeInOpenInterest = clonePtr(a.ChangeInOpenInterest)
	a.NonCommercial = PositionTuple{
		Long:    clonePtr(a.NonCommercial.Long),
		Short:   clonePtr(a.NonCommercial.Short),
		Spreads: clonePtr(a.NonCommercial.Spreads),
		Net:     clonePtr(a.NonCommercial.Net),
	}
	a.Changes = ChangeTuple{
		Long:    clonePtr(a.Changes.Long),
		Short:   clonePtr(a.Changes.Short),
		Spreads: clonePtr(a.Changes.Spreads),
	}
	a.PctOfOpenInterest = PctTuple{
		Long:    clonePtr(a.PctOfOpenInterest.Long),
		Short:   clonePtr(a.PctOfOpenInterest.Short),
		Spreads: clonePtr(a.PctOfOpenInterest.Spreads),
	}
	a.UnfulfilledCalls = clonePtr(a.UnfulfilledCalls)
	return a
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// PositioningDataset groups the assets of a single scan by category.
// A category missing from the map has no assets.
type PositioningDataset map[Category][]PositioningAsset

// PositioningSnapshot is a stored COT scan.
type PositioningSnapshot struct {
	ScanID     string             `json:"scan_id"`
	ReportDate string             `json:"report_date"`
	Data       PositioningDataset `json:"data"`
}
