package model

// FallbackMatchReasoning marks matches produced by the deterministic
// weighted-scoring fallback.
const FallbackMatchReasoning = "Fallback matching used (AI unavailable)"

// MaxMatches caps how many ranked SKU matches the matching stage returns.
const MaxMatches = 3

// SKUMatch pairs a catalog SKU with how well it satisfies the extracted
// requirements. Lists of matches are ordered by MatchPercentage descending;
// ties keep catalog order.
type SKUMatch struct {
	SKU             string  `json:"sku"`
	Description     string  `json:"description"`
	Voltage         string  `json:"voltage"`
	Material        string  `json:"material"`
	Insulation      string  `json:"insulation"`
	BasePrice       float64 `json:"base_price"`
	MatchPercentage int     `json:"match_percentage"`
	Reasoning       string  `json:"reasoning"`
}
