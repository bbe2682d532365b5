package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/rfp-quote/internal/catalog"
	"github.com/sells-group/rfp-quote/internal/report"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the SKU catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SKU\tVOLTAGE\tMATERIAL\tINSULATION\tBASE PRICE\tDESCRIPTION")
		for _, s := range cat.List() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				s.SKU, s.Voltage, s.Material, s.Insulation, report.Money(s.BasePrice), s.Description)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
