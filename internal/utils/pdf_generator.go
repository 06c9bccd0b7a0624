package utils

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/go-pdf/fpdf"

	"equipdash/internal/models"
)

// RenderSummaryPDF рендерит отчет по сводке в PDF.
func RenderSummaryPDF(summary *models.Summary) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Chemical Equipment Summary Report")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Dataset ID: %d", summary.ID))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Uploaded At: %s", summary.UploadedAt.Format("2006-01-02 15:04:05 MST")))
	pdf.Ln(12)

	pdf.Cell(0, 7, fmt.Sprintf("Total Equipment: %d", summary.TotalEquipment))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Average Flowrate: %.2f", summary.AvgFlowrate))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Average Pressure: %.2f", summary.AvgPressure))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Average Temperature: %.2f", summary.AvgTemperature))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Type Distribution:")
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "", 12)
	for _, typeName := range sortedTypes(summary.TypeDistrib) {
		pdf.Cell(8, 7, "")
		pdf.Cell(0, 7, fmt.Sprintf("- %s: %d", typeName, summary.TypeDistrib[typeName]))
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// sortedTypes — детерминированный порядок строк в отчете.
func sortedTypes(distrib map[string]int) []string {
	types := make([]string, 0, len(distrib))
	for typeName := range distrib {
		types = append(types, typeName)
	}
	sort.Strings(types)
	return types
}
