package ingest

import (
	"fmt"
	"strings"
)

// SchemaValidationError — в заголовке файла нет обязательных колонок.
type SchemaValidationError struct {
	Missing []string
	Found   []string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("missing columns: [%s], found: [%s]",
		strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
}

// RecordConversionError — числовая ячейка не распарсилась.
// Row — номер строки данных, начиная с 1 (заголовок не считается).
type RecordConversionError struct {
	Row    int
	Column string
	Value  string
}

func (e *RecordConversionError) Error() string {
	return fmt.Sprintf("row %d: column %q: cannot convert %q to number",
		e.Row, e.Column, e.Value)
}
