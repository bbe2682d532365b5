package model

import "time"

// Reasoning/analysis markers emitted by the pricing fallback.
const (
	FallbackPriceReasoning       = "Standard estimate (AI unavailable)"
	FallbackAlternativeReasoning = "Alternative option (AI unavailable)"
	FallbackPricingAnalysis      = "Standard pricing estimate (AI unavailable)"
)

// PricingItem is one line of the quote: a matched SKU priced at a chosen
// quantity with the local cost breakdown applied.
type PricingItem struct {
	SKU          string  `json:"sku"`
	Description  string  `json:"description"`
	BasePrice    float64 `json:"base_price"`
	Quantity     int     `json:"quantity"`
	MaterialCost float64 `json:"material_cost"`
	ServiceCost  float64 `json:"service_cost"`
	TestingCost  float64 `json:"testing_cost"`
	TotalCost    float64 `json:"total_cost"`
	Reasoning    string  `json:"reasoning"`
}

// PricingResult is the pricing stage's output: itemized costs, their sum, and
// a narrative analysis.
type PricingResult struct {
	Items      []PricingItem `json:"items"`
	GrandTotal float64       `json:"grand_total"`
	Analysis   string        `json:"analysis"`
}

// Quote is the orchestrator's response for one RFP: the extracted summary,
// ranked matches, itemized pricing, and the grand total. Request-scoped;
// never persisted.
type Quote struct {
	ID         string        `json:"id"`
	Success    bool          `json:"success"`
	Summary    RFPSummary    `json:"summary"`
	Matches    []SKUMatch    `json:"matches"`
	Pricing    []PricingItem `json:"pricing"`
	GrandTotal float64       `json:"grand_total"`
	Analysis   string        `json:"analysis"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Degraded reports whether any stage fell back to its deterministic path.
// The wire format carries no explicit flag; degradation is only visible
// through the reasoning markers the fallbacks embed.
func (q Quote) Degraded() bool {
	if q.Summary.Degraded() {
		return true
	}
	for _, m := range q.Matches {
		if m.Reasoning == FallbackMatchReasoning {
			return true
		}
	}
	for _, p := range q.Pricing {
		if p.Reasoning == FallbackPriceReasoning || p.Reasoning == FallbackAlternativeReasoning {
			return true
		}
	}
	return false
}
