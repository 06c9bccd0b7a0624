package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RequiredColumns — обязательный набор колонок после трима пробелов.
var RequiredColumns = []string{"Equipment Name", "Type", "Flowrate", "Pressure", "Temperature"}

// Row — одна валидированная строка данных: обязательная колонка -> сырое значение.
type Row map[string]string

// Parse читает табличный файл (CSV или XLSX по расширению),
// валидирует заголовок и возвращает строки данных.
// Числовые ячейки здесь не проверяются — это работа маппера.
func Parse(filename string, r io.Reader) ([]Row, error) {
	var (
		table [][]string
		err   error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		table, err = readXLSX(r)
	default:
		table, err = readCSV(r)
	}
	if err != nil {
		return nil, err
	}

	return buildRows(table)
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	table, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return table, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read XLSX sheet: %w", err)
	}
	return rows, nil
}

// buildRows тримит имена колонок, проверяет обязательный набор
// и отображает каждую строку данных в Row.
func buildRows(table [][]string) ([]Row, error) {
	if len(table) == 0 {
		return nil, &SchemaValidationError{
			Missing: append([]string(nil), RequiredColumns...),
			Found:   []string{},
		}
	}

	found := make([]string, 0, len(table[0]))
	colIdx := make(map[string]int, len(table[0]))
	for i, name := range table[0] {
		name = strings.TrimSpace(name)
		found = append(found, name)
		if _, ok := colIdx[name]; !ok {
			colIdx[name] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := colIdx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaValidationError{Missing: missing, Found: found}
	}

	rows := make([]Row, 0, len(table)-1)
	for _, raw := range table[1:] {
		row := make(Row, len(RequiredColumns))
		for _, col := range RequiredColumns {
			idx := colIdx[col]
			if idx < len(raw) {
				row[col] = raw[idx]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}
