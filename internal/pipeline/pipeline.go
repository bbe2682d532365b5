// Package pipeline implements the three-stage RFP quoting pipeline:
// extraction, SKU matching, and pricing. Each stage prefers a Claude call
// and degrades to a deterministic fallback on any external failure, so a
// started run always produces a quote.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/rfp-quote/internal/catalog"
	"github.com/sells-group/rfp-quote/internal/config"
	"github.com/sells-group/rfp-quote/internal/model"
	"github.com/sells-group/rfp-quote/pkg/anthropic"
)

// ErrEmptyRFP rejects requests whose RFP text is empty or whitespace.
var ErrEmptyRFP = eris.New("pipeline: rfp text is required")

// Pipeline orchestrates the extract → match → price sequence against a fixed
// catalog. Stateless aside from the read-only catalog; safe for concurrent use.
type Pipeline struct {
	cfg *config.Config
	cat *catalog.Catalog
	ai  anthropic.Client
}

// New creates a Pipeline with all dependencies.
func New(cfg *config.Config, cat *catalog.Catalog, aiClient anthropic.Client) *Pipeline {
	return &Pipeline{
		cfg: cfg,
		cat: cat,
		ai:  aiClient,
	}
}

// Catalog returns the read-only catalog the pipeline matches against.
func (p *Pipeline) Catalog() *catalog.Catalog {
	return p.cat
}

// Process runs the full pipeline for one RFP text. Validation failures are
// returned before any stage runs; stage degradation is absorbed internally
// and only visible through reasoning markers on the quote. The stages run
// strictly sequentially: each consumes the previous stage's output, and the
// raw text is additionally passed to pricing as context.
func (p *Pipeline) Process(ctx context.Context, rfpText string) (quote *model.Quote, err error) {
	if strings.TrimSpace(rfpText) == "" {
		return nil, ErrEmptyRFP
	}

	// Stages are contracted never to fail, so a panic here is a bug; map it
	// to an error at the boundary instead of taking the process down.
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("pipeline: stage panicked", zap.Any("panic", r))
			quote = nil
			err = eris.Errorf("pipeline: internal error: %v", r)
		}
	}()

	log := zap.L().With(zap.Int("rfp_chars", len(rfpText)))
	start := time.Now()
	log.Info("pipeline: processing rfp")

	summary := ExtractSummary(ctx, rfpText, p.ai, p.cfg.Anthropic)
	log.Info("pipeline: extraction complete",
		zap.String("title", summary.Title),
		zap.Bool("constrained", summary.Constrained()),
		zap.Bool("degraded", summary.Degraded()),
	)

	matches := MatchSKUs(ctx, summary, p.cat, p.ai, p.cfg.Anthropic)
	log.Info("pipeline: matching complete", zap.Int("matches", len(matches)))

	pricing := PriceMatches(ctx, matches, rfpText, p.ai, p.cfg.Anthropic, p.cfg.Pricing)
	log.Info("pipeline: pricing complete",
		zap.Int("items", len(pricing.Items)),
		zap.Float64("grand_total", pricing.GrandTotal),
	)

	quote = &model.Quote{
		ID:         uuid.NewString(),
		Success:    true,
		Summary:    summary,
		Matches:    matches,
		Pricing:    pricing.Items,
		GrandTotal: pricing.GrandTotal,
		Analysis:   pricing.Analysis,
		CreatedAt:  time.Now().UTC(),
	}

	log.Info("pipeline: quote ready",
		zap.String("quote_id", quote.ID),
		zap.Bool("degraded", quote.Degraded()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return quote, nil
}

// callTimeout bounds a single AI round trip. A zero TimeoutSecs leaves the
// transport's own deadline in charge.
func callTimeout(ctx context.Context, aiCfg config.AnthropicConfig) (context.Context, context.CancelFunc) {
	if aiCfg.TimeoutSecs <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, time.Duration(aiCfg.TimeoutSecs)*time.Second)
}
