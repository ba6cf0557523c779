package reportexport

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/speccade/speccade/report"
)

// PDF renders r as a short summary: run identity, the outputs list,
// and any errors/warnings. Unlike XLSX it omits the license, target
// triple and variant fields; gofpdf's automatic page break carries a
// long outputs or issues list onto further pages.
func PDF(r report.Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(190, 10, "SpecCade Generation Report")
	pdf.Ln(15)

	pdf.SetFont("Arial", "", 10)
	field := func(label, value string) {
		pdf.Cell(40, 6, label)
		pdf.Cell(150, 6, value)
		pdf.Ln(6)
	}
	field("Asset ID:", r.AssetID)
	field("Asset Type:", string(r.AssetType))
	field("Run ID:", r.RunID.String())
	field("Seed:", fmt.Sprintf("%d", r.Seed))
	field("Spec Hash:", r.SpecHash)
	field("Recipe Hash:", r.RecipeHash)
	field("Backend Version:", r.BackendVersion)
	field("Duration:", fmt.Sprintf("%d ms", r.DurationMillis))
	status := "FAIL"
	if r.OK {
		status = "OK"
	}
	field("Status:", status)
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(190, 8, "Outputs")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	if len(r.Outputs) == 0 {
		pdf.Cell(190, 6, "(none)")
		pdf.Ln(6)
	}
	for _, o := range r.Outputs {
		pdf.Cell(190, 6, fmt.Sprintf("%s  %s  %s", o.Kind, o.Path, o.Hash))
		pdf.Ln(6)
	}
	pdf.Ln(6)

	if len(r.Errors) > 0 || len(r.Warnings) > 0 {
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(190, 8, "Issues")
		pdf.Ln(10)
		pdf.SetFont("Arial", "", 9)
		for _, e := range r.Errors {
			for _, line := range splitText(fmt.Sprintf("[%s] %s (%s)", e.Code, e.Message, e.Path), 95) {
				pdf.Cell(190, 5, line)
				pdf.Ln(5)
			}
		}
		for _, w := range r.Warnings {
			for _, line := range splitText(fmt.Sprintf("[%s] %s (%s)", w.Code, w.Message, w.Path), 95) {
				pdf.Cell(190, 5, line)
				pdf.Ln(5)
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("reportexport: rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// splitText wraps text into lines no longer than maxLen runes,
// breaking on whitespace (teacher's gofpdf reports do the same since
// gofpdf.Cell does not wrap on its own).
func splitText(text string, maxLen int) []string {
	var lines []string
	words := bytes.Fields([]byte(text))

	var currentLine bytes.Buffer
	for _, word := range words {
		if currentLine.Len()+len(word)+1 > maxLen {
			if currentLine.Len() > 0 {
				lines = append(lines, currentLine.String())
				currentLine.Reset()
			}
		}
		if currentLine.Len() > 0 {
			currentLine.WriteByte(' ')
		}
		currentLine.Write(word)
	}
	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}
	return lines
}
