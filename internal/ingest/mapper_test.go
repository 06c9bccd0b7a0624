package ingest

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapRow_Converts(t *testing.T) {
	uploadedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	row := Row{
		"Equipment Name": " Pump1 ",
		"Type":           "Pump",
		"Flowrate":       " 10.5 ",
		"Pressure":       "2",
		"Temperature":    "-3.25",
	}

	eq, err := MapRow(row, 1, 7, uploadedAt)
	require.NoError(t, err)

	assert.Equal(t, uint(7), eq.DatasetID)
	assert.Equal(t, "Pump1", eq.Name)
	assert.Equal(t, "Pump", eq.Type)
	assert.Equal(t, 10.5, eq.Flowrate)
	assert.Equal(t, 2.0, eq.Pressure)
	assert.Equal(t, -3.25, eq.Temperature)
	// Метка времени всегда берется у датасета
	assert.Equal(t, uploadedAt, eq.UploadedAt)
}

func TestMapRow_ConversionError(t *testing.T) {
	row := Row{
		"Equipment Name": "Pump1",
		"Type":           "Pump",
		"Flowrate":       "10.0",
		"Pressure":       "high",
		"Temperature":    "25.0",
	}

	_, err := MapRow(row, 3, 1, time.Now())
	require.Error(t, err)

	var convErr *RecordConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, 3, convErr.Row)
	assert.Equal(t, "Pressure", convErr.Column)
	assert.Equal(t, "high", convErr.Value)
}

func TestMapRows_FirstErrorAborts(t *testing.T) {
	rows := []Row{
		{"Equipment Name": "Pump1", "Type": "Pump", "Flowrate": "10.0", "Pressure": "2.0", "Temperature": "25.0"},
		{"Equipment Name": "Valve1", "Type": "Valve", "Flowrate": "n/a", "Pressure": "1.0", "Temperature": "20.0"},
		{"Equipment Name": "Pump2", "Type": "Pump", "Flowrate": "bad", "Pressure": "2.0", "Temperature": "25.0"},
	}

	records, err := MapRows(rows, 1, time.Now())
	require.Error(t, err)
	assert.Nil(t, records)

	var convErr *RecordConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, 2, convErr.Row)
	assert.Equal(t, "Flowrate", convErr.Column)
}

func TestMapRows_EmptyInput(t *testing.T) {
	records, err := MapRows(nil, 1, time.Now())
	require.NoError(t, err)
	assert.Empty(t, records)
}
