package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/rfp-quote/internal/model"
)

func sampleQuote() *model.Quote {
	return &model.Quote{
		ID:      "q-test-1",
		Success: true,
		Summary: model.RFPSummary{
			Title:        "Supply of Industrial Power Cables",
			DueDate:      "2025-03-15",
			Voltage:      "11kV",
			Material:     "Copper",
			Insulation:   "XLPE",
			Compliance:   []string{"IS 7098"},
			Requirements: []string{"Industrial grade"},
		},
		Matches: []model.SKUMatch{
			{SKU: "CAB-11KV-CU-XLPE", Description: "11kV Copper Conductor XLPE Insulated Power Cable", MatchPercentage: 100, BasePrice: 1200, Reasoning: "exact match"},
		},
		Pricing: []model.PricingItem{
			{SKU: "CAB-11KV-CU-XLPE", Description: "11kV Copper Conductor XLPE Insulated Power Cable", BasePrice: 1200, Quantity: 100, MaterialCost: 86400, ServiceCost: 4320, TestingCost: 2500, TotalCost: 213220, Reasoning: "standard run"},
		},
		GrandTotal: 213220,
		Analysis:   "Single strong candidate",
		CreatedAt:  time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC),
	}
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "₹2,13,220.00", Money(213220))
	assert.Equal(t, "₹450.00", Money(450))
	assert.Equal(t, "₹0.00", Money(0))
}

func TestFormatText(t *testing.T) {
	out := FormatText(sampleQuote())

	assert.Contains(t, out, "Supply of Industrial Power Cables")
	assert.Contains(t, out, "Due date: 2025-03-15")
	assert.Contains(t, out, "CAB-11KV-CU-XLPE (100%)")
	assert.Contains(t, out, "Grand total: ₹2,13,220.00")
	assert.Contains(t, out, "Analysis: Single strong candidate")
	assert.NotContains(t, out, "deterministic fallbacks")
}

func TestFormatText_DegradedNote(t *testing.T) {
	q := sampleQuote()
	q.Summary.Requirements = append(q.Summary.Requirements, model.FallbackExtractionNote)

	out := FormatText(q)
	assert.Contains(t, out, "deterministic fallbacks")
}

func TestFormatText_EmptySections(t *testing.T) {
	q := sampleQuote()
	q.Matches = nil
	q.Pricing = nil
	q.Analysis = ""

	out := FormatText(q)
	assert.Contains(t, out, "(none)")
	assert.Contains(t, out, "(no items)")
	assert.NotContains(t, out, "Analysis:")
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quote.xlsx")
	require.NoError(t, WriteXLSX(sampleQuote(), path))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, "Quote", sheet.Name)

	found := false
	for _, row := range sheet.Rows {
		if len(row.Cells) > 0 && row.Cells[0].Value == "CAB-11KV-CU-XLPE" {
			found = true
			qty, err := row.Cells[4].Int()
			require.NoError(t, err)
			assert.Equal(t, 100, qty)
		}
	}
	assert.True(t, found, "pricing row missing from sheet")
}
