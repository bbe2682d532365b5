package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/rfp-quote/internal/catalog"
	"github.com/sells-group/rfp-quote/internal/config"
	"github.com/sells-group/rfp-quote/internal/pipeline"
	"github.com/sells-group/rfp-quote/pkg/anthropic"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "rfpquote",
	Short: "RFP-to-quote pipeline for the cable SKU catalog",
	Long:  "Extracts structured requirements from free-text RFPs, matches them against the SKU catalog, and produces an itemized price quote. Claude-assisted with deterministic fallbacks.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// newAIClient builds the (possibly disabled) rate-limited Anthropic client.
func newAIClient() anthropic.Client {
	client := anthropic.NewClient(cfg.Anthropic.Key)
	if !anthropic.Enabled(client) {
		zap.L().Warn("anthropic key not configured, all stages will use deterministic fallbacks")
	}
	return anthropic.NewRateLimitedClient(client, cfg.Anthropic.RateRPS, cfg.Anthropic.RateBurst)
}

// initPipeline loads the catalog and wires the pipeline.
func initPipeline() (*pipeline.Pipeline, anthropic.Client, error) {
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, nil, err
	}
	zap.L().Info("catalog loaded", zap.Int("skus", cat.Len()), zap.String("path", cfg.Catalog.Path))

	ai := newAIClient()
	return pipeline.New(cfg, cat, ai), ai, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
