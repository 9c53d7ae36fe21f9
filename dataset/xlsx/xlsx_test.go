package xlsx

import (
	"bytes"
	"context"
	"testing"

	"github.com/pbanos/orchard/dataset"
	"github.com/pbanos/orchard/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, sheet string, rows [][]interface{}) *bytes.Buffer {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	b, err := f.WriteToBuffer()
	require.NoError(t, err)
	return b
}

func TestReadDataset(t *testing.T) {
	b := workbook(t, "weather", [][]interface{}{
		{"weather", "play", "wind"},
		{"Sun", "Yes", 10},
		{},
		{"Rain", "No", 20.5},
	})
	ds, err := ReadDataset(b, "", nil, dataset.New)
	require.NoError(t, err)
	assert.Equal(t, []string{"weather", "play", "wind"}, feature.Names(ds.Features()))
	count, err := ds.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	values, err := ds.FeatureValues(context.Background(), ds.Features()[2])
	require.NoError(t, err)
	assert.Equal(t, []interface{}{10.0, 20.5}, values)
}

func TestReadDatasetErrors(t *testing.T) {
	b := workbook(t, "weather", [][]interface{}{
		{"weather", "play"},
		{"Sun"},
	})
	_, err := ReadDataset(bytes.NewReader(b.Bytes()), "", nil, dataset.New)
	assert.Error(t, err, "trailing empty cells are empty values")

	_, err = ReadDataset(bytes.NewReader(b.Bytes()), "other", nil, dataset.New)
	assert.Error(t, err)

	_, err = ReadDataset(bytes.NewReader([]byte("not a workbook")), "", nil, dataset.New)
	assert.Error(t, err)
}
