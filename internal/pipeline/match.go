package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/rfp-quote/internal/catalog"
	"github.com/sells-group/rfp-quote/internal/config"
	"github.com/sells-group/rfp-quote/internal/model"
	"github.com/sells-group/rfp-quote/pkg/anthropic"
)

const matchTemperature = 0.2

// Fallback scoring weights. Only attributes present in the summary count
// toward the maximum, so an unconstrained summary scores every SKU at the
// neutral percentage.
const (
	voltageWeight        = 40
	voltagePartialCredit = 20
	materialWeight       = 30
	insulationWeight     = 30
	neutralPercentage    = 50
)

// matchSystemText carries the full catalog; it is stable across requests and
// sent as a cache-controlled system block.
const matchSystemText = `You are a technical expert in electrical cables. Match RFP requirements to the best SKUs from this catalog.

Available SKU Catalog:
%s

Analyze each SKU and calculate a match percentage (0-100) based on:
1. Voltage compatibility (40%% weight) - exact match = full points, compatible range = partial
2. Material match (30%% weight) - exact match required for full points
3. Insulation match (30%% weight) - exact match required for full points`

const matchPrompt = `RFP Requirements:
- Voltage: %s
- Material: %s
- Insulation: %s
- Compliance: %s
- Requirements: %s

Return the top 3 matching SKUs with their match percentages and reasoning.

Respond ONLY with a JSON array in this exact format (no markdown, no backticks):
[
  {
    "sku": "string",
    "match_percentage": number,
    "reasoning": "string explaining why this SKU matches"
  }
]

Sort by match percentage descending.`

// MatchSKUs scores the catalog against the summary and returns the top
// ranked matches, at most model.MaxMatches, sorted by percentage descending.
// It never fails: AI errors, undecodable replies, and replies that resolve
// to zero catalog entries all degrade to deterministic weighted scoring.
func MatchSKUs(ctx context.Context, summary model.RFPSummary, cat *catalog.Catalog, ai anthropic.Client, aiCfg config.AnthropicConfig) []model.SKUMatch {
	matches, err := matchWithAI(ctx, summary, cat, ai, aiCfg)
	if err != nil {
		zap.L().Warn("match: AI path failed, using fallback scoring", zap.Error(err))
		return fallbackMatch(summary, cat)
	}
	return matches
}

func matchWithAI(ctx context.Context, summary model.RFPSummary, cat *catalog.Catalog, ai anthropic.Client, aiCfg config.AnthropicConfig) ([]model.SKUMatch, error) {
	ctx, cancel := callTimeout(ctx, aiCfg)
	defer cancel()

	catalogJSON, err := json.MarshalIndent(cat.List(), "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "match: marshal catalog")
	}

	temp := matchTemperature
	resp, err := ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       aiCfg.Model,
		MaxTokens:   aiCfg.MaxTokens,
		Temperature: &temp,
		System:      anthropic.BuildCachedSystemBlocks(fmt.Sprintf(matchSystemText, catalogJSON)),
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(matchPrompt,
				orUnspecified(summary.Voltage),
				orUnspecified(summary.Material),
				orUnspecified(summary.Insulation),
				orUnspecified(strings.Join(summary.Compliance, ", ")),
				orUnspecified(strings.Join(summary.Requirements, "; ")),
			)},
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "match: create message")
	}
	resp.Usage.LogCost(aiCfg.Model, "match")

	text := cleanJSONArray(resp.Text())
	if text == "" {
		return nil, eris.New("match: empty reply")
	}

	var ranked []struct {
		SKU             string  `json:"sku"`
		MatchPercentage float64 `json:"match_percentage"`
		Reasoning       string  `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(text), &ranked); err != nil {
		return nil, eris.Wrap(err, "match: decode reply")
	}

	if len(ranked) > model.MaxMatches {
		ranked = ranked[:model.MaxMatches]
	}

	var matches []model.SKUMatch
	for _, r := range ranked {
		sku, ok := cat.Lookup(r.SKU)
		if !ok {
			// Hallucinated SKUs are dropped silently.
			continue
		}
		matches = append(matches, model.SKUMatch{
			SKU:             sku.SKU,
			Description:     sku.Description,
			Voltage:         sku.Voltage,
			Material:        sku.Material,
			Insulation:      sku.Insulation,
			BasePrice:       sku.BasePrice,
			MatchPercentage: clampPercentage(r.MatchPercentage),
			Reasoning:       r.Reasoning,
		})
	}
	if len(matches) == 0 {
		return nil, eris.New("match: no reply entries resolved against catalog")
	}

	return matches, nil
}

// fallbackMatch scores every catalog entry with deterministic attribute
// weights and returns the top entries, ties kept in catalog order.
func fallbackMatch(summary model.RFPSummary, cat *catalog.Catalog) []model.SKUMatch {
	var matches []model.SKUMatch

	for _, sku := range cat.List() {
		score := 0
		maxScore := 0

		if summary.Voltage != "" {
			maxScore += voltageWeight
			score += voltageScore(summary.Voltage, sku.Voltage)
		}

		if summary.Material != "" {
			maxScore += materialWeight
			if strings.EqualFold(summary.Material, sku.Material) {
				score += materialWeight
			}
		}

		if summary.Insulation != "" {
			maxScore += insulationWeight
			if strings.EqualFold(summary.Insulation, sku.Insulation) {
				score += insulationWeight
			}
		}

		pct := neutralPercentage
		if maxScore > 0 {
			pct = int(math.Round(float64(score) / float64(maxScore) * 100))
		}

		matches = append(matches, model.SKUMatch{
			SKU:             sku.SKU,
			Description:     sku.Description,
			Voltage:         sku.Voltage,
			Material:        sku.Material,
			Insulation:      sku.Insulation,
			BasePrice:       sku.BasePrice,
			MatchPercentage: pct,
			Reasoning:       model.FallbackMatchReasoning,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchPercentage > matches[j].MatchPercentage
	})
	if len(matches) > model.MaxMatches {
		matches = matches[:model.MaxMatches]
	}
	return matches
}

// voltageScore gives full credit for an exact normalized match and partial
// credit when one numeric portion is a substring of the other (e.g. "11kV"
// against "11kV rating" variants).
func voltageScore(want, have string) int {
	w := normalizeVoltage(want)
	h := normalizeVoltage(have)

	if w == h {
		return voltageWeight
	}
	if strings.Contains(w, strings.TrimSuffix(h, "kv")) || strings.Contains(h, strings.TrimSuffix(w, "kv")) {
		return voltagePartialCredit
	}
	return 0
}

func normalizeVoltage(v string) string {
	return strings.ReplaceAll(strings.ToLower(v), " ", "")
}

func clampPercentage(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return int(math.Round(v))
	}
}

func orUnspecified(v string) string {
	if v == "" {
		return "Not specified"
	}
	return v
}
