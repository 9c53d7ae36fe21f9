/*
Package xlsx reads datasets from Excel workbooks.
*/
package xlsx

import (
	"fmt"
	"io"
	"strings"

	"github.com/pbanos/orchard/dataset"
	"github.com/pbanos/orchard/dataset/csv"
	"github.com/pbanos/orchard/feature"
	"github.com/xuri/excelize/v2"
)

/*
ReadDataset takes an io.Reader for an XLSX workbook, the name of the sheet to
read (the first one when empty), a slice of features and a DatasetGenerator and
returns the dataset on the sheet or an error.

The first row of the sheet holds the column names and the rest one sample
each. Features are handled as in csv.ReadDataset. Rows left completely empty
are skipped; trailing empty cells of a row count as empty values.
*/
func ReadDataset(reader io.Reader, sheet string, features []feature.Feature, dg csv.DatasetGenerator) (dataset.Dataset, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %v", err)
	}
	defer f.Close()
	return readSheet(f, sheet, features, dg)
}

/*
ReadDatasetFromFilePath takes a filepath to an XLSX workbook and behaves as
ReadDataset on its contents.
*/
func ReadDatasetFromFilePath(filepath, sheet string, features []feature.Feature, dg csv.DatasetGenerator) (dataset.Dataset, error) {
	f, err := excelize.OpenFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %v", filepath, err)
	}
	defer f.Close()
	ds, err := readSheet(f, sheet, features, dg)
	if err != nil {
		err = fmt.Errorf("parsing XLSX file %s: %v", filepath, err)
	}
	return ds, err
}

func readSheet(f *excelize.File, sheet string, features []feature.Feature, dg csv.DatasetGenerator) (dataset.Dataset, error) {
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %v", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s has no header row", sheet)
	}
	header := rows[0]
	records := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		record := make([]string, len(header))
		copy(record, row)
		records = append(records, record)
	}
	return csv.FromRecords(header, records, features, dg)
}
