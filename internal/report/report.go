// Package report renders a finished quote for humans: a plain-text summary
// for the CLI and an XLSX workbook for handing to sales.
package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/rfp-quote/internal/model"
)

// Amounts are rupee-denominated; en-IN grouping (2,13,220) matches how the
// sales team reads them.
var printer = message.NewPrinter(language.MustParse("en-IN"))

// Money formats a currency amount with the ₹ symbol and locale grouping.
func Money(v float64) string {
	return printer.Sprintf("₹%.2f", v)
}

// FormatText renders a quote as a plain-text report.
func FormatText(q *model.Quote) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Quote %s — %s\n", q.ID, q.Summary.Title)
	fmt.Fprintf(&b, "Generated: %s\n", q.CreatedAt.Format("2006-01-02 15:04 MST"))
	if q.Degraded() {
		b.WriteString("Note: produced with deterministic fallbacks (AI unavailable for one or more stages)\n")
	}
	b.WriteString("\n")

	b.WriteString("Requirements\n")
	writeField(&b, "Due date", q.Summary.DueDate)
	writeField(&b, "Voltage", q.Summary.Voltage)
	writeField(&b, "Material", q.Summary.Material)
	writeField(&b, "Insulation", q.Summary.Insulation)
	if len(q.Summary.Compliance) > 0 {
		writeField(&b, "Compliance", strings.Join(q.Summary.Compliance, ", "))
	}
	for _, r := range q.Summary.Requirements {
		fmt.Fprintf(&b, "  - %s\n", r)
	}
	b.WriteString("\n")

	b.WriteString("Matched SKUs\n")
	for i, m := range q.Matches {
		fmt.Fprintf(&b, "  %d. %s (%d%%) — %s\n", i+1, m.SKU, m.MatchPercentage, m.Description)
		fmt.Fprintf(&b, "     %s\n", m.Reasoning)
	}
	if len(q.Matches) == 0 {
		b.WriteString("  (none)\n")
	}
	b.WriteString("\n")

	b.WriteString("Pricing\n")
	for _, it := range q.Pricing {
		fmt.Fprintf(&b, "  %s × %d @ %s\n", it.SKU, it.Quantity, Money(it.BasePrice))
		fmt.Fprintf(&b, "     material %s, service %s, testing %s → total %s\n",
			Money(it.MaterialCost), Money(it.ServiceCost), Money(it.TestingCost), Money(it.TotalCost))
		fmt.Fprintf(&b, "     %s\n", it.Reasoning)
	}
	if len(q.Pricing) == 0 {
		b.WriteString("  (no items)\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Grand total: %s\n", Money(q.GrandTotal))
	if q.Analysis != "" {
		fmt.Fprintf(&b, "\nAnalysis: %s\n", q.Analysis)
	}

	return b.String()
}

func writeField(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "  %s: %s\n", name, value)
}
