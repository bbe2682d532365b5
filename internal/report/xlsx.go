package report

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/rfp-quote/internal/model"
)

// WriteXLSX writes the quote as a single-sheet workbook at path.
func WriteXLSX(q *model.Quote, path string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Quote")
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}

	addTextRow(sheet, "Quote ID", q.ID)
	addTextRow(sheet, "Title", q.Summary.Title)
	addTextRow(sheet, "Generated", q.CreatedAt.Format("2006-01-02 15:04 MST"))
	addTextRow(sheet, "Due date", q.Summary.DueDate)
	addTextRow(sheet, "Voltage", q.Summary.Voltage)
	addTextRow(sheet, "Material", q.Summary.Material)
	addTextRow(sheet, "Insulation", q.Summary.Insulation)
	addTextRow(sheet, "Compliance", strings.Join(q.Summary.Compliance, ", "))
	sheet.AddRow()

	header := sheet.AddRow()
	for _, h := range []string{"SKU", "Description", "Match %", "Base Price", "Quantity", "Material Cost", "Service Cost", "Testing Cost", "Total Cost", "Reasoning"} {
		header.AddCell().Value = h
	}

	matchPct := make(map[string]int, len(q.Matches))
	for _, m := range q.Matches {
		matchPct[m.SKU] = m.MatchPercentage
	}

	for _, it := range q.Pricing {
		row := sheet.AddRow()
		row.AddCell().Value = it.SKU
		row.AddCell().Value = it.Description
		row.AddCell().SetInt(matchPct[it.SKU])
		row.AddCell().SetFloat(it.BasePrice)
		row.AddCell().SetInt(it.Quantity)
		row.AddCell().SetFloat(it.MaterialCost)
		row.AddCell().SetFloat(it.ServiceCost)
		row.AddCell().SetFloat(it.TestingCost)
		row.AddCell().SetFloat(it.TotalCost)
		row.AddCell().Value = it.Reasoning
	}

	sheet.AddRow()
	totalRow := sheet.AddRow()
	totalRow.AddCell().Value = "Grand Total"
	for i := 0; i < 7; i++ {
		totalRow.AddCell()
	}
	totalRow.AddCell().SetFloat(q.GrandTotal)

	if q.Analysis != "" {
		sheet.AddRow()
		addTextRow(sheet, "Analysis", q.Analysis)
	}

	if err := file.Save(path); err != nil {
		return eris.Wrap(err, "report: save workbook")
	}
	return nil
}

func addTextRow(sheet *xlsx.Sheet, label, value string) {
	if value == "" {
		return
	}
	row := sheet.AddRow()
	row.AddCell().Value = label
	row.AddCell().Value = value
}
