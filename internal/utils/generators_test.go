package utils

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"equipdash/internal/models"
)

func sampleSummary(id uint) models.Summary {
	return models.Summary{
		ID:             id,
		UploadedAt:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		TotalEquipment: 2,
		AvgFlowrate:    7.5,
		AvgPressure:    1.5,
		AvgTemperature: 22.5,
		TypeDistrib:    map[string]int{"Pump": 1, "Valve": 1},
	}
}

func TestRenderSummaryPDF(t *testing.T) {
	summary := sampleSummary(3)

	pdfBytes, err := RenderSummaryPDF(&summary)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))
	assert.Greater(t, len(pdfBytes), 500)
}

func TestRenderSummaryPDF_Deterministic(t *testing.T) {
	summary := sampleSummary(3)

	first, err := RenderSummaryPDF(&summary)
	require.NoError(t, err)
	second, err := RenderSummaryPDF(&summary)
	require.NoError(t, err)

	// Порядок типов в отчете стабилен
	assert.Equal(t, len(first), len(second))
}

func TestBuildHistoryWorkbook(t *testing.T) {
	summaries := []models.Summary{sampleSummary(2), sampleSummary(1)}

	xlsxBytes, err := BuildHistoryWorkbook(summaries)
	require.NoError(t, err)
	require.NotEmpty(t, xlsxBytes)

	f, err := excelize.OpenReader(bytes.NewReader(xlsxBytes))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(historySheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Dataset ID", header)

	firstID, err := f.GetCellValue(historySheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "2", firstID)

	// Лист распределения построен по самой свежей сводке
	typeCell, err := f.GetCellValue(distribSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Pump", typeCell)
}

func TestBuildHistoryWorkbook_Empty(t *testing.T) {
	xlsxBytes, err := BuildHistoryWorkbook(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, xlsxBytes)
}
