package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GannForce/internal/domain/models"
	"GannForce/internal/usecase"
)

func TestPrintDashboard(t *testing.T) {
	uc := 12.5
	pivot := "2901.5"
	d := &usecase.Dashboard{
		ReportDate:      "2025-02-11",
		SentimentSource: "myfxbook",
		SentimentAge:    "3 hours ago",
		Instruments: []usecase.InstrumentView{
			{
				ReconciledInstrument: models.ReconciledInstrument{
					ID:             "GOLD",
					Display:        "Gold",
					CotAsset:       &models.PositioningAsset{Name: "GOLD", UnfulfilledCalls: &uc},
					PivotPrice:     &pivot,
					CotSignal:      models.CotBullish,
					Recommendation: models.Buy,
				},
				RecommendationLabel:  "Buy",
				SentimentSignalLabel: "Buy",
			},
			{
				ReconciledInstrument: models.ReconciledInstrument{
					ID:             "OIL",
					Display:        "Crude Oil",
					CotSignal:      models.CotNeutral,
					Recommendation: models.Neutral,
				},
				RecommendationLabel: "Neutral",
			},
		},
		Errors: map[string]string{"orderbook": "timeout", "cot": "down"},
	}

	var buf bytes.Buffer
	require.NoError(t, printDashboard(&buf, d))
	out := buf.String()

	assert.Contains(t, out, "COT report: 2025-02-11")
	assert.Contains(t, out, "myfxbook (3 hours ago)")
	assert.Contains(t, out, "12.50")
	assert.Contains(t, out, "2901.5")
	assert.Regexp(t, `Crude Oil\s+neutral\s+-\s+-\s+-\s+Neutral`, out)
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("COT: down")), bytes.Index(buf.Bytes(), []byte("ORDERBOOK: timeout")))
}

func TestOrDash(t *testing.T) {
	assert.Equal(t, "-", orDash(""))
	assert.Equal(t, "x", orDash("x"))
}
