package positioning

import (
	"encoding/json"
	"testing"

	"GannForce/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func i64(v int64) *int64 { return &v }

func uc(net, chgLong, chgShort int64) *float64 {
	return UnfulfilledCalls(i64(net), i64(chgLong), i64(chgShort))
}

func TestUnfulfilledCalls(t *testing.T) {
	v := uc(150_000, 12_000, 2_000)
	require.NotNil(t, v)
	assert.Equal(t, 15.0, *v)

	v = uc(-10_000, -1_000, 4_000)
	require.NotNil(t, v)
	assert.Equal(t, 3.33, *v)

	v = uc(1, 3, 0)
	require.NotNil(t, v)
	assert.Equal(t, 0.33, *v)

	v = uc(2, 3, 0)
	require.NotNil(t, v)
	assert.Equal(t, 0.67, *v)

	assert.Nil(t, uc(500, 1_000, -1_000), "zero denominator")
	assert.Nil(t, uc(0, 0, 0))
}

func TestNormalize(t *testing.T) {
	a := Normalize(models.PositioningAsset{
		Name:          "GOLD",
		NonCommercial: models.PositionTuple{Long: i64(300), Short: i64(100), Net: i64(999)},
		Changes:       models.ChangeTuple{Long: i64(50), Short: i64(-10)},
	})
	require.NotNil(t, a.NonCommercial.Net)
	assert.Equal(t, int64(200), *a.NonCommercial.Net)
	require.NotNil(t, a.UnfulfilledCalls)
	assert.Equal(t, 5.0, *a.UnfulfilledCalls)
}

func TestNormalizeDataset(t *testing.T) {
	ds := models.PositioningDataset{
		models.CategoryMetals: {{Name: "GOLD", ReportDate: "2025-02-11"}},
		"Art":                 {{Name: "MONA LISA"}},
	}
	out, dropped := NormalizeDataset(ds)
	assert.Equal(t, []models.Category{"Art"}, dropped)
	require.Len(t, out[models.CategoryMetals], 1)
	assert.Equal(t, models.CategoryMetals, out[models.CategoryMetals][0].Category)
	assert.Equal(t, "2025-02-11", ReportDate(out))
}

func TestReportDateEmpty(t *testing.T) {
	assert.Equal(t, "", ReportDate(nil))
}

func TestUnfulfilledCallsTiesRoundUp(t *testing.T) {
	// -1/8 = -0.125 rounds toward +Inf.
	v := uc(-1, 8, 0)
	require.NotNil(t, v)
	assert.Equal(t, -0.12, *v)

	v = uc(1, 8, 0)
	require.NotNil(t, v)
	assert.Equal(t, 0.13, *v)
}

func TestUnfulfilledCallsMissingInput(t *testing.T) {
	assert.Nil(t, UnfulfilledCalls(nil, i64(100), i64(50)))
	assert.Nil(t, UnfulfilledCalls(i64(10), nil, i64(50)))
	assert.Nil(t, UnfulfilledCalls(i64(10), i64(100), nil))
}

func TestNormalizeKeepsUnparsedCellsNull(t *testing.T) {
	var a models.PositioningAsset
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "GOLD",
		"open_interest": null,
		"non_commercial": {"long": null, "short": null, "spreads": null, "net": null},
		"changes": {"long": 100, "short": 50, "spreads": null},
		"unfulfilled_calls": null
	}`), &a))

	got := Normalize(a)
	assert.Nil(t, got.NonCommercial.Net)
	assert.Nil(t, got.UnfulfilledCalls)
	assert.Nil(t, got.OpenInterest)

	// Only one leg of the tuple known.
	a.NonCommercial.Long = i64(300)
	got = Normalize(a)
	assert.Nil(t, got.NonCommercial.Net)
	assert.Nil(t, got.UnfulfilledCalls)
}

func TestRoundHalfUpExactTies(t *testing.T) {
	// 1005/1000 is an exact decimal tie and rounds up.
	v := uc(1005, 1000, 0)
	require.NotNil(t, v)
	assert.Equal(t, 1.01, *v)
}
