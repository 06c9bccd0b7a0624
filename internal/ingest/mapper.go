package ingest

import (
	"strconv"
	"strings"
	"time"

	"equipdash/internal/models"
)

// MapRow превращает валидированную строку в запись оборудования.
// rowNum — номер строки данных, начиная с 1.
// UploadedAt всегда берется у датасета, пользовательское значение игнорируется.
func MapRow(row Row, rowNum int, datasetID uint, uploadedAt time.Time) (models.Equipment, error) {
	eq := models.Equipment{
		DatasetID:  datasetID,
		Name:       strings.TrimSpace(row["Equipment Name"]),
		Type:       strings.TrimSpace(row["Type"]),
		UploadedAt: uploadedAt,
	}

	var err error
	if eq.Flowrate, err = parseFloat(row, "Flowrate", rowNum); err != nil {
		return models.Equipment{}, err
	}
	if eq.Pressure, err = parseFloat(row, "Pressure", rowNum); err != nil {
		return models.Equipment{}, err
	}
	if eq.Temperature, err = parseFloat(row, "Temperature", rowNum); err != nil {
		return models.Equipment{}, err
	}

	return eq, nil
}

// MapRows маппит все строки; первая же ошибка конверсии прерывает весь батч.
func MapRows(rows []Row, datasetID uint, uploadedAt time.Time) ([]models.Equipment, error) {
	records := make([]models.Equipment, 0, len(rows))
	for i, row := range rows {
		eq, err := MapRow(row, i+1, datasetID, uploadedAt)
		if err != nil {
			return nil, err
		}
		records = append(records, eq)
	}
	return records, nil
}

func parseFloat(row Row, column string, rowNum int) (float64, error) {
	raw := row[column]
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &RecordConversionError{Row: rowNum, Column: column, Value: raw}
	}
	return value, nil
}
