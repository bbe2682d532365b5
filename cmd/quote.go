package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/rfp-quote/internal/model"
	"github.com/sells-group/rfp-quote/internal/report"
)

var (
	quoteJSON bool
	quoteXLSX string
)

var quoteCmd = &cobra.Command{
	Use:   "quote FILE...",
	Short: "Generate quotes for one or more RFP text files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if quoteXLSX != "" && len(args) > 1 {
			return eris.New("--xlsx accepts exactly one input file")
		}

		p, _, err := initPipeline()
		if err != nil {
			return err
		}

		// Runs are independent; process files concurrently with a bounded
		// limit. Stages within each run stay strictly sequential.
		quotes := make([]*model.Quote, len(args))
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(cfg.Quote.MaxConcurrentFiles)

		for i, path := range args {
			g.Go(func() error {
				data, err := os.ReadFile(path)
				if err != nil {
					return eris.Wrap(err, "read rfp file")
				}
				q, err := p.Process(ctx, string(data))
				if err != nil {
					return eris.Wrapf(err, "process %s", filepath.Base(path))
				}
				quotes[i] = q
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for i, q := range quotes {
			if quoteJSON {
				out, err := json.MarshalIndent(q, "", "  ")
				if err != nil {
					return eris.Wrap(err, "marshal quote")
				}
				fmt.Println(string(out))
				continue
			}
			if i > 0 {
				fmt.Println(strings.Repeat("=", 72))
			}
			fmt.Print(report.FormatText(q))
		}

		if quoteXLSX != "" {
			if err := report.WriteXLSX(quotes[0], quoteXLSX); err != nil {
				return err
			}
			zap.L().Info("wrote quote workbook", zap.String("path", quoteXLSX))
		}

		return nil
	},
}

func init() {
	quoteCmd.Flags().BoolVar(&quoteJSON, "json", false, "print quotes as JSON")
	quoteCmd.Flags().StringVar(&quoteXLSX, "xlsx", "", "write the quote to an XLSX workbook")
	rootCmd.AddCommand(quoteCmd)
}
