// Package reportexport renders a report.Report to human-readable
// presentation formats. These are strictly additive views over the
// canonical JSON manifest (spec §6.5) -- nothing here feeds back into
// generation or hashing, and a caller that never imports this package
// loses nothing but the pretty output.
package reportexport

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/speccade/speccade/report"
)

const (
	summarySheet  = "Summary"
	outputsSheet  = "Outputs"
	issuesSheet   = "Issues"
)

// XLSX renders r as a three-sheet workbook: a Summary sheet with the
// run's identity fields, an Outputs sheet with one row per produced
// file, and an Issues sheet with one row per error/warning.
func XLSX(r report.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// excelize.NewFile seeds a default "Sheet1"; rename it into the
	// summary sheet instead of leaving an empty sheet behind.
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("reportexport: renaming summary sheet: %w", err)
	}
	if err := writeSummarySheet(f, r); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(outputsSheet); err != nil {
		return nil, fmt.Errorf("reportexport: creating outputs sheet: %w", err)
	}
	writeOutputsSheet(f, r)

	if _, err := f.NewSheet(issuesSheet); err != nil {
		return nil, fmt.Errorf("reportexport: creating issues sheet: %w", err)
	}
	writeIssuesSheet(f, r)

	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("reportexport: writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, r report.Report) error {
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("reportexport: building header style: %w", err)
	}

	rows := [][2]string{
		{"Run ID", r.RunID.String()},
		{"Asset ID", r.AssetID},
		{"Asset Type", string(r.AssetType)},
		{"License", r.License},
		{"Seed", fmt.Sprintf("%d", r.Seed)},
		{"Spec Hash", r.SpecHash},
		{"Recipe Hash", r.RecipeHash},
		{"OK", fmt.Sprintf("%t", r.OK)},
		{"Duration (ms)", fmt.Sprintf("%d", r.DurationMillis)},
		{"Backend Version", r.BackendVersion},
		{"Target Triple", r.TargetTriple},
	}
	if r.VariantID != "" {
		rows = append(rows, [2]string{"Variant ID", r.VariantID})
		rows = append(rows, [2]string{"Base Spec Hash", r.BaseSpecHash})
	}

	for i, row := range rows {
		line := i + 1
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", line), row[0])
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", line), row[1])
	}
	f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(rows)), boldStyle)
	f.SetColWidth(summarySheet, "A", "A", 18)
	f.SetColWidth(summarySheet, "B", "B", 50)
	return nil
}

func writeOutputsSheet(f *excelize.File, r report.Report) {
	headers := []string{"Kind", "Format", "Path", "Hash"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(outputsSheet, cell, h)
	}

	for i, o := range r.Outputs {
		row := i + 2
		f.SetCellValue(outputsSheet, fmt.Sprintf("A%d", row), string(o.Kind))
		f.SetCellValue(outputsSheet, fmt.Sprintf("B%d", row), string(o.Format))
		f.SetCellValue(outputsSheet, fmt.Sprintf("C%d", row), o.Path)
		f.SetCellValue(outputsSheet, fmt.Sprintf("D%d", row), o.Hash)
	}
	f.SetColWidth(outputsSheet, "A", "D", 20)
}

func writeIssuesSheet(f *excelize.File, r report.Report) {
	headers := []string{"Severity", "Code", "Message", "Path"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(issuesSheet, cell, h)
	}

	row := 2
	for _, e := range r.Errors {
		f.SetCellValue(issuesSheet, fmt.Sprintf("A%d", row), "error")
		f.SetCellValue(issuesSheet, fmt.Sprintf("B%d", row), string(e.Code))
		f.SetCellValue(issuesSheet, fmt.Sprintf("C%d", row), e.Message)
		f.SetCellValue(issuesSheet, fmt.Sprintf("D%d", row), e.Path)
		row++
	}
	for _, w := range r.Warnings {
		f.SetCellValue(issuesSheet, fmt.Sprintf("A%d", row), "warning")
		f.SetCellValue(issuesSheet, fmt.Sprintf("B%d", row), string(w.Code))
		f.SetCellValue(issuesSheet, fmt.Sprintf("C%d", row), w.Message)
		f.SetCellValue(issuesSheet, fmt.Sprintf("D%d", row), w.Path)
		row++
	}
	f.SetColWidth(issuesSheet, "A", "D", 24)
}
