package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/rfp-quote/internal/config"
	"github.com/sells-group/rfp-quote/internal/model"
	"github.com/sells-group/rfp-quote/pkg/anthropic"
)

const priceTemperature = 0.3

// Cost model shared by the AI and fallback paths. The AI only suggests
// quantities and narrative; all amounts come from these local formulas.
const (
	copperFactor    = 1.2
	aluminiumFactor = 0.8
	materialShare   = 0.6
	serviceRate     = 0.05
)

// testingCostTiers maps a voltage substring to standard and discounted
// testing charges. Checked in order; first substring hit wins.
var testingCostTiers = []struct {
	substr     string
	standard   float64
	discounted float64
}{
	{"33", 5000, 4000},
	{"22", 3500, 3000},
	{"11", 2500, 2000},
	{"6.6", 2000, 1500},
}

const defaultTestingCost = 1500

const pricePrompt = `You are a pricing specialist for electrical cables. Generate a detailed cost estimate.

Matched SKUs:
%s

RFP Context: %s

For each SKU (prioritize the top match, include second if match >= 70%%), recommend a quantity considering project scope and voltage rating.

Respond ONLY with a JSON object in this exact format (no markdown, no backticks):
{
  "items": [
    {
      "sku": "string",
      "quantity": number,
      "reasoning": "string explaining quantity choice"
    }
  ],
  "analysis": "string with overall pricing strategy and recommendations"
}`

// PriceMatches computes the cost breakdown for the ranked matches. It never
// fails: AI errors degrade to a fixed-quantity estimate. Empty matches yield
// an empty result with a zero total on either path.
func PriceMatches(ctx context.Context, matches []model.SKUMatch, rfpContext string, ai anthropic.Client, aiCfg config.AnthropicConfig, priceCfg config.PricingConfig) model.PricingResult {
	if len(matches) == 0 {
		return model.PricingResult{
			Items:      []model.PricingItem{},
			GrandTotal: 0,
			Analysis:   "No matching SKUs to price",
		}
	}

	result, err := priceWithAI(ctx, matches, rfpContext, ai, aiCfg)
	if err != nil {
		zap.L().Warn("price: AI path failed, using standard estimate", zap.Error(err))
		return fallbackPrice(matches, priceCfg)
	}
	return result
}

func priceWithAI(ctx context.Context, matches []model.SKUMatch, rfpContext string, ai anthropic.Client, aiCfg config.AnthropicConfig) (model.PricingResult, error) {
	ctx, cancel := callTimeout(ctx, aiCfg)
	defer cancel()

	matchesJSON, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return model.PricingResult{}, eris.Wrap(err, "price: marshal matches")
	}

	if strings.TrimSpace(rfpContext) == "" {
		rfpContext = "Standard project"
	}

	temp := priceTemperature
	resp, err := ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       aiCfg.Model,
		MaxTokens:   aiCfg.MaxTokens,
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(pricePrompt, matchesJSON, rfpContext)},
		},
	})
	if err != nil {
		return model.PricingResult{}, eris.Wrap(err, "price: create message")
	}
	resp.Usage.LogCost(aiCfg.Model, "price")

	text := cleanJSON(resp.Text())
	if text == "" {
		return model.PricingResult{}, eris.New("price: empty reply")
	}

	var parsed struct {
		Items []struct {
			SKU       string  `json:"sku"`
			Quantity  float64 `json:"quantity"`
			Reasoning string  `json:"reasoning"`
		} `json:"items"`
		Analysis string `json:"analysis"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return model.PricingResult{}, eris.Wrap(err, "price: decode reply")
	}

	bySKU := make(map[string]model.SKUMatch, len(matches))
	for _, m := range matches {
		bySKU[m.SKU] = m
	}

	var items []model.PricingItem
	for _, it := range parsed.Items {
		match, ok := bySKU[it.SKU]
		if !ok {
			// Only SKUs the matching stage produced may be priced.
			continue
		}
		qty := int(math.Round(it.Quantity))
		if qty <= 0 {
			continue
		}
		items = append(items, buildItem(match, qty, false, it.Reasoning))
	}
	if len(items) == 0 {
		return model.PricingResult{}, eris.New("price: no reply items resolved against matches")
	}

	analysis := parsed.Analysis
	if analysis == "" {
		analysis = "Pricing calculated successfully"
	}

	return model.PricingResult{
		Items:      items,
		GrandTotal: sumTotals(items),
		Analysis:   analysis,
	}, nil
}

// fallbackPrice prices the top match at the default quantity, plus the
// second match as a discounted alternative when it scores at or above the
// configured threshold.
func fallbackPrice(matches []model.SKUMatch, priceCfg config.PricingConfig) model.PricingResult {
	if len(matches) == 0 {
		return model.PricingResult{
			Items:      []model.PricingItem{},
			GrandTotal: 0,
			Analysis:   "No matching SKUs to price",
		}
	}

	items := []model.PricingItem{
		buildItem(matches[0], priceCfg.DefaultQuantity, false, model.FallbackPriceReasoning),
	}

	if len(matches) > 1 && matches[1].MatchPercentage >= priceCfg.AlternativeThreshold {
		items = append(items, buildItem(matches[1], priceCfg.AlternativeQuantity, true, model.FallbackAlternativeReasoning))
	}

	return model.PricingResult{
		Items:      items,
		GrandTotal: sumTotals(items),
		Analysis:   model.FallbackPricingAnalysis,
	}
}

// buildItem applies the local cost formulas to one matched SKU at the chosen
// quantity.
func buildItem(m model.SKUMatch, quantity int, discounted bool, reasoning string) model.PricingItem {
	factor := aluminiumFactor
	if strings.EqualFold(m.Material, "Copper") {
		factor = copperFactor
	}

	materialCost := math.Round(m.BasePrice * float64(quantity) * factor * materialShare)
	serviceCost := math.Round(materialCost * serviceRate)
	testing := testingCost(m.Voltage, discounted)
	total := m.BasePrice*float64(quantity) + materialCost + serviceCost + testing

	return model.PricingItem{
		SKU:          m.SKU,
		Description:  m.Description,
		BasePrice:    m.BasePrice,
		Quantity:     quantity,
		MaterialCost: materialCost,
		ServiceCost:  serviceCost,
		TestingCost:  testing,
		TotalCost:    total,
		Reasoning:    reasoning,
	}
}

func testingCost(voltage string, discounted bool) float64 {
	for _, tier := range testingCostTiers {
		if strings.Contains(voltage, tier.substr) {
			if discounted {
				return tier.discounted
			}
			return tier.standard
		}
	}
	return defaultTestingCost
}

func sumTotals(items []model.PricingItem) float64 {
	var total float64
	for _, it := range items {
		total += it.TotalCost
	}
	return total
}
