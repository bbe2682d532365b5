package model

// DefaultRFPTitle is used when no title can be extracted from the RFP text.
const DefaultRFPTitle = "Untitled RFP"

// FallbackExtractionNote is the single requirement entry emitted by the
// deterministic extraction fallback. Downstream consumers can detect degraded
// extraction quality by its presence.
const FallbackExtractionNote = "Error processing RFP with AI - using basic parsing"

// RFPSummary is the structured requirement summary produced by the extraction
// stage. Empty string fields mean "unconstrained"; the matching stage only
// scores attributes that are present.
type RFPSummary struct {
	Title        string   `json:"title"`
	DueDate      string   `json:"due_date,omitempty"`
	Voltage      string   `json:"voltage,omitempty"`
	Material     string   `json:"material,omitempty"`
	Insulation   string   `json:"insulation,omitempty"`
	Compliance   []string `json:"compliance"`
	Requirements []string `json:"requirements"`
}

// Constrained reports whether the summary carries at least one scoreable
// attribute. An unconstrained summary gives every SKU a neutral match score.
func (s RFPSummary) Constrained() bool {
	return s.Voltage != "" || s.Material != "" || s.Insulation != ""
}

// Degraded reports whether the summary was produced by the extraction
// fallback rather than the AI path.
func (s RFPSummary) Degraded() bool {
	for _, r := range s.Requirements {
		if r == FallbackExtractionNote {
			return true
		}
	}
	return false
}
