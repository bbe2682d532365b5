package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/rfp-quote/internal/model"
	"github.com/sells-group/rfp-quote/pkg/anthropic"
)

func TestProcess_EmptyTextRejected(t *testing.T) {
	p := New(testConfig(), testCatalog(t), failingAI(t))

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := p.Process(context.Background(), text)
		assert.ErrorIs(t, err, ErrEmptyRFP)
	}
}

func TestProcess_FullyDegradedRun(t *testing.T) {
	// A client built without a credential forces every stage onto its
	// deterministic fallback; the run must still produce a complete quote.
	p := New(testConfig(), testCatalog(t), anthropic.NewClient(""))

	quote, err := p.Process(context.Background(), sampleRFP)
	require.NoError(t, err)

	assert.True(t, quote.Success)
	assert.True(t, quote.Degraded())
	assert.NotEmpty(t, quote.ID)
	assert.False(t, quote.CreatedAt.IsZero())

	assert.Equal(t, "Supply of Industrial Power Cables", quote.Summary.Title)
	require.NotEmpty(t, quote.Matches)
	assert.Equal(t, "CAB-11KV-CU-XLPE", quote.Matches[0].SKU)
	assert.Equal(t, 100, quote.Matches[0].MatchPercentage)

	require.NotEmpty(t, quote.Pricing)
	assert.Equal(t, 100, quote.Pricing[0].Quantity)
	assert.Equal(t, 213220.0, quote.Pricing[0].TotalCost)
	assert.Equal(t, model.FallbackPricingAnalysis, quote.Analysis)
}

func TestProcess_GrandTotalMatchesItems(t *testing.T) {
	p := New(testConfig(), testCatalog(t), anthropic.NewClient(""))

	quote, err := p.Process(context.Background(), sampleRFP)
	require.NoError(t, err)

	var sum float64
	for _, it := range quote.Pricing {
		sum += it.TotalCost
	}
	assert.Equal(t, sum, quote.GrandTotal)
}

func TestProcess_AISuccessStageOrder(t *testing.T) {
	// One reply per stage, consumed in extract → match → price order.
	ai := new(mockAIClient)
	ai.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`{"title":"Harbor Grid Upgrade","due_date":"2025-09-30","voltage":"33kV","material":"Aluminium","insulation":"XLPE","compliance":["IEC 60502"],"requirements":["armoured"]}`), nil).Once()
	ai.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`[{"sku":"CAB-33KV-AL-XLPE","match_percentage":97,"reasoning":"exact spec"}]`), nil).Once()
	ai.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`{"items":[{"sku":"CAB-33KV-AL-XLPE","quantity":120,"reasoning":"site survey"}],"analysis":"competitive"}`), nil).Once()

	p := New(testConfig(), testCatalog(t), ai)

	quote, err := p.Process(context.Background(), "Harbor grid upgrade RFP text")
	require.NoError(t, err)

	assert.False(t, quote.Degraded())
	assert.Equal(t, "Harbor Grid Upgrade", quote.Summary.Title)
	require.Len(t, quote.Matches, 1)
	assert.Equal(t, 97, quote.Matches[0].MatchPercentage)
	require.Len(t, quote.Pricing, 1)
	assert.Equal(t, 120, quote.Pricing[0].Quantity)
	assert.Equal(t, "competitive", quote.Analysis)
	ai.AssertExpectations(t)
}

func TestProcess_StatelessAcrossRuns(t *testing.T) {
	p := New(testConfig(), testCatalog(t), anthropic.NewClient(""))

	first, err := p.Process(context.Background(), sampleRFP)
	require.NoError(t, err)
	second, err := p.Process(context.Background(), sampleRFP)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.GrandTotal, second.GrandTotal)
}
