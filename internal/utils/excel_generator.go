package utils

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"equipdash/internal/models"
)

const (
	historySheet = "History"
	distribSheet = "Distribution"
	infoSheet    = "Info"
)

// BuildHistoryWorkbook собирает XLSX со сводками по всем хранимым
// датасетам. Первая сводка считается самой свежей.
func BuildHistoryWorkbook(summaries []models.Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(historySheet)
	if err != nil {
		return nil, err
	}

	headers := []string{"Dataset ID", "Uploaded At", "Total Equipment",
		"Avg Flowrate", "Avg Pressure", "Avg Temperature"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(historySheet, cell, header)
	}

	for rowIdx, summary := range summaries {
		rowNum := rowIdx + 2 // заголовок в первой строке

		f.SetCellValue(historySheet, fmt.Sprintf("A%d", rowNum), summary.ID)
		f.SetCellValue(historySheet, fmt.Sprintf("B%d", rowNum),
			summary.UploadedAt.Format("2006-01-02 15:04:05"))
		f.SetCellValue(historySheet, fmt.Sprintf("C%d", rowNum), summary.TotalEquipment)
		f.SetCellValue(historySheet, fmt.Sprintf("D%d", rowNum), summary.AvgFlowrate)
		f.SetCellValue(historySheet, fmt.Sprintf("E%d", rowNum), summary.AvgPressure)
		f.SetCellValue(historySheet, fmt.Sprintf("F%d", rowNum), summary.AvgTemperature)
	}

	for i := 1; i <= len(headers); i++ {
		colName, _ := excelize.ColumnNumberToName(i)
		f.SetColWidth(historySheet, colName, colName, 20)
	}

	if len(summaries) > 0 {
		if err := createDistributionSheet(f, &summaries[0]); err != nil {
			return nil, err
		}
	}
	createInfoSheet(f, summaries)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// createDistributionSheet — распределение типов свежайшего датасета с графиком.
func createDistributionSheet(f *excelize.File, latest *models.Summary) error {
	if _, err := f.NewSheet(distribSheet); err != nil {
		return err
	}

	f.SetCellValue(distribSheet, "A1", "Type")
	f.SetCellValue(distribSheet, "B1", "Count")

	types := sortedTypes(latest.TypeDistrib)
	for i, typeName := range types {
		rowNum := i + 2
		f.SetCellValue(distribSheet, fmt.Sprintf("A%d", rowNum), typeName)
		f.SetCellValue(distribSheet, fmt.Sprintf("B%d", rowNum), latest.TypeDistrib[typeName])
	}
	f.SetColWidth(distribSheet, "A", "B", 20)

	if len(types) == 0 {
		return nil
	}

	chart := &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{
			{
				Name:       "Equipment Count",
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", distribSheet, len(types)+1),
				Values:     fmt.Sprintf("%s!$B$2:$B$%d", distribSheet, len(types)+1),
			},
		},
		Title: []excelize.RichTextRun{
			{Text: fmt.Sprintf("Type Distribution (Dataset %d)", latest.ID)},
		},
		XAxis: excelize.ChartAxis{MajorGridLines: true},
		YAxis: excelize.ChartAxis{MajorGridLines: true},
		Dimension: excelize.ChartDimension{
			Width:  600,
			Height: 400,
		},
	}

	return f.AddChart(distribSheet, "D2", chart)
}

func createInfoSheet(f *excelize.File, summaries []models.Summary) {
	f.NewSheet(infoSheet)

	f.SetCellValue(infoSheet, "A1", "Report Generated")
	f.SetCellValue(infoSheet, "B1", time.Now().UTC().Format("2006-01-02 15:04:05"))
	f.SetCellValue(infoSheet, "A2", "Datasets Included")
	f.SetCellValue(infoSheet, "B2", len(summaries))

	if len(summaries) > 0 {
		oldest := summaries[len(summaries)-1]
		newest := summaries[0]
		f.SetCellValue(infoSheet, "A3", "Time Range")
		f.SetCellValue(infoSheet, "B3", fmt.Sprintf("%s to %s",
			oldest.UploadedAt.Format("2006-01-02 15:04:05"),
			newest.UploadedAt.Format("2006-01-02 15:04:05")))
	}
	f.SetColWidth(infoSheet, "A", "B", 25)
}
