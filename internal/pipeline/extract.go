package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/rfp-quote/internal/config"
	"github.com/sells-group/rfp-quote/internal/model"
	"github.com/sells-group/rfp-quote/pkg/anthropic"
)

const extractTemperature = 0.2

const extractSystemText = "You are a sales analyst extracting key information from RFP documents for electrical cables. Respond only with the requested JSON object."

const extractPrompt = `Analyze the following RFP text and extract:
1. Title of the RFP
2. Due date (in YYYY-MM-DD format if possible)
3. Voltage rating (e.g., "11kV", "33kV", "LV")
4. Material type (Copper or Aluminium)
5. Insulation type (XLPE, PVC, etc.)
6. Compliance standards mentioned (e.g., IS compliant, IEC, IEEE, etc.)
7. Key technical requirements (as a list)

RFP Text:
%s

Respond ONLY with a JSON object in this exact format (no markdown, no backticks):
{
  "title": "string",
  "due_date": "string or null",
  "voltage": "string or null",
  "material": "string or null",
  "insulation": "string or null",
  "compliance": ["string"],
  "requirements": ["string"]
}`

// ExtractSummary turns raw RFP text into a structured requirement summary.
// It never fails: any AI transport or decode error is absorbed and the
// deterministic line/regex fallback is used instead.
func ExtractSummary(ctx context.Context, rawText string, ai anthropic.Client, aiCfg config.AnthropicConfig) model.RFPSummary {
	summary, err := extractWithAI(ctx, rawText, ai, aiCfg)
	if err != nil {
		zap.L().Warn("extract: AI path failed, using fallback parsing", zap.Error(err))
		return fallbackExtract(rawText)
	}
	return summary
}

func extractWithAI(ctx context.Context, rawText string, ai anthropic.Client, aiCfg config.AnthropicConfig) (model.RFPSummary, error) {
	ctx, cancel := callTimeout(ctx, aiCfg)
	defer cancel()

	temp := extractTemperature
	resp, err := ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       aiCfg.Model,
		MaxTokens:   aiCfg.MaxTokens,
		Temperature: &temp,
		System:      []anthropic.SystemBlock{{Text: extractSystemText}},
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(extractPrompt, rawText)},
		},
	})
	if err != nil {
		return model.RFPSummary{}, eris.Wrap(err, "extract: create message")
	}
	resp.Usage.LogCost(aiCfg.Model, "extract")

	text := cleanJSON(resp.Text())
	if text == "" {
		return model.RFPSummary{}, eris.New("extract: empty reply")
	}

	// The reply is untrusted: decode into nullable fields and normalize
	// rather than trusting field presence.
	var parsed struct {
		Title        *string  `json:"title"`
		DueDate      *string  `json:"due_date"`
		Voltage      *string  `json:"voltage"`
		Material     *string  `json:"material"`
		Insulation   *string  `json:"insulation"`
		Compliance   []string `json:"compliance"`
		Requirements []string `json:"requirements"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return model.RFPSummary{}, eris.Wrap(err, "extract: decode reply")
	}

	summary := model.RFPSummary{
		Title:        model.DefaultRFPTitle,
		Compliance:   []string{},
		Requirements: []string{},
	}
	if parsed.Title != nil && *parsed.Title != "" {
		summary.Title = *parsed.Title
	}
	if parsed.DueDate != nil {
		summary.DueDate = *parsed.DueDate
	}
	if parsed.Voltage != nil {
		summary.Voltage = *parsed.Voltage
	}
	if parsed.Material != nil {
		summary.Material = *parsed.Material
	}
	if parsed.Insulation != nil {
		summary.Insulation = *parsed.Insulation
	}
	if parsed.Compliance != nil {
		summary.Compliance = parsed.Compliance
	}
	if parsed.Requirements != nil {
		summary.Requirements = parsed.Requirements
	}

	return summary, nil
}

var (
	dueDateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}|\d{2}/\d{2}/\d{4}|\d{2}-\d{2}-\d{4}`)

	voltageRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)voltage[:\s]+(\d+(?:\.\d+)?)\s*kv`),
		regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*kv\s*rating`),
		regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*kv`),
	}
)

// fallbackExtract is the deterministic extraction path. It operates only on
// the raw text and is idempotent.
func fallbackExtract(rawText string) model.RFPSummary {
	var lines []string
	for _, line := range strings.Split(rawText, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			lines = append(lines, l)
		}
	}

	title := model.DefaultRFPTitle
	if line, ok := findLabeledLine(lines, "rfp title:", "title:", "subject:"); ok {
		if idx := strings.Index(line, ":"); idx >= 0 {
			if v := strings.TrimSpace(line[idx+1:]); v != "" {
				title = v
			}
		}
	}

	dueDate := ""
	if line, ok := findLabeledLine(lines, "due date:", "deadline:", "submission date:"); ok {
		dueDate = dueDateRe.FindString(line)
	}

	voltage := ""
	for _, re := range voltageRes {
		if m := re.FindStringSubmatch(rawText); m != nil {
			voltage = m[1] + "kV"
			break
		}
	}
	lower := strings.ToLower(rawText)
	if voltage == "" && strings.Contains(lower, "low voltage") {
		voltage = "LV"
	}

	material := ""
	switch {
	case strings.Contains(lower, "copper"):
		material = "Copper"
	case strings.Contains(lower, "aluminium"), strings.Contains(lower, "aluminum"):
		material = "Aluminium"
	}

	insulation := ""
	switch {
	case strings.Contains(lower, "xlpe"):
		insulation = "XLPE"
	case strings.Contains(lower, "pvc"):
		insulation = "PVC"
	}

	return model.RFPSummary{
		Title:      title,
		DueDate:    dueDate,
		Voltage:    voltage,
		Material:   material,
		Insulation: insulation,
		Compliance: []string{},
		// Signals degraded extraction quality to downstream consumers.
		Requirements: []string{model.FallbackExtractionNote},
	}
}

// findLabeledLine returns the first line containing any of the given
// case-insensitive labels.
func findLabeledLine(lines []string, labels ...string) (string, bool) {
	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, label := range labels {
			if strings.Contains(lower, label) {
				return line, true
			}
		}
	}
	return "", false
}
