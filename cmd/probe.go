package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/rfp-quote/pkg/anthropic"
)

// probeAI issues one tiny completion to verify credentials and connectivity.
func probeAI(ctx context.Context, ai anthropic.Client) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	resp, err := ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     cfg.Anthropic.Model,
		MaxTokens: 100,
		Messages: []anthropic.Message{
			{Role: "user", Content: "Say hello in 3 words"},
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "probe")
	}
	return resp.Text(), nil
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check Anthropic API connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		ai := newAIClient()
		if !anthropic.Enabled(ai) {
			return eris.New("anthropic API key not configured")
		}

		reply, err := probeAI(cmd.Context(), ai)
		if err != nil {
			return err
		}
		fmt.Printf("ok (%s): %s\n", cfg.Anthropic.Model, reply)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)
}
