/*
Package csv reads and writes datasets as CSV streams.
*/
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pbanos/orchard/dataset"
	"github.com/pbanos/orchard/feature"
)

/*
Writer is an interface for a dataset to which samples
can be written to.
*/
type Writer interface {
	// Write will attempt to write the given number
	// of samples and will return the actually written
	// number of samples and an error (if not all samples
	// could be written)
	Write(context.Context, []dataset.Sample) (int, error)
	// Count returns the total number of samples written
	// to the writer
	Count() int
	// Flush ensures any pending written operations finish
	// before returning. It returns an error if that cannot
	// be ensured.
	Flush() error
}

/*
DatasetGenerator is a function that takes a slice of features and a slice of
samples and generates a dataset with them.
*/
type DatasetGenerator func([]feature.Feature, []dataset.Sample) dataset.Dataset

type csvWriter struct {
	count    int
	features []feature.Feature
	w        *csv.Writer
}

/*
ReadDataset takes an io.Reader for a CSV stream, a slice of features and a
DatasetGenerator and returns a dataset.Dataset built with the generator and the
samples parsed from the reader or an error.

The header or first row of the CSV content is expected to consist of the names
of the columns. When the given features slice is empty, features are inferred
from the content: a column whose every cell parses as a number is numeric, any
other column is text. Otherwise every column must be declared on the slice, and
the dataset features follow the order of the slice.
Empty cells are rejected: null handling must happen before mining.
*/
func ReadDataset(reader io.Reader, features []feature.Feature, dg DatasetGenerator) (dataset.Dataset, error) {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %v", err)
	}
	var records [][]string
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading body: %v", err)
		}
		if len(row) != len(header) {
			return nil, fmt.Errorf("line %d has %d fields, header has %d", l, len(row), len(header))
		}
		records = append(records, row)
	}
	return FromRecords(header, records, features, dg)
}

/*
FromRecords takes a header, a slice of string records and a slice of
features and builds a dataset with the given generator after parsing every
cell according to its feature. It is shared by the readers of tabular
formats that yield strings. See ReadDataset for the handling of features.
*/
func FromRecords(header []string, records [][]string, features []feature.Feature, dg DatasetGenerator) (dataset.Dataset, error) {
	columns, err := columnFeatures(header, records, features)
	if err != nil {
		return nil, err
	}
	samples := make([]dataset.Sample, 0, len(records))
	for i, row := range records {
		sample, err := parseSampleFromRow(row, columns)
		if err != nil {
			return nil, fmt.Errorf("parsing record %d: %v", i+1, err)
		}
		samples = append(samples, sample)
	}
	ordered := features
	if len(ordered) == 0 {
		ordered = columns
	}
	return dg(ordered, samples), nil
}

/*
ReadDatasetFromFilePath takes a filepath string, a slice of features and a
DatasetGenerator, opens the file to which the filepath points to and uses
ReadDataset to return a dataset.Dataset or an error read from it. If the
filepath is "" os.Stdin is used instead. It will return an error if the given
filepath cannot be opened for reading.
*/
func ReadDatasetFromFilePath(filepath string, features []feature.Feature, dg DatasetGenerator) (dataset.Dataset, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, fmt.Errorf("reading dataset: %v", err)
		}
		defer f.Close()
	}
	ds, err := ReadDataset(f, features, dg)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return ds, err
}

/*
NewWriter takes an io.Writer and a slice of feature.Features and
returns a Writer that will write any samples on the io.Writer.
*/
func NewWriter(writer io.Writer, features []feature.Feature) (Writer, error) {
	w := csv.NewWriter(writer)
	err := w.Write(feature.Names(features))
	if err != nil {
		return nil, fmt.Errorf("writing CSV header: %v", err)
	}
	return &csvWriter{features: features, w: w}, nil
}

/*
WriteCSVDataset takes a writer and a dataset.Dataset and dumps to the writer
the dataset in CSV format. It returns an error if something went wrong when
writing to the writer, or codifying the samples.
*/
func WriteCSVDataset(ctx context.Context, writer io.Writer, s dataset.Dataset) error {
	cw, err := NewWriter(writer, s.Features())
	if err != nil {
		return err
	}
	samples, err := s.Samples(ctx)
	if err != nil {
		return err
	}
	_, err = cw.Write(ctx, samples)
	if err != nil {
		return err
	}
	return cw.Flush()
}

func columnFeatures(header []string, records [][]string, features []feature.Feature) ([]feature.Feature, error) {
	columns := make([]feature.Feature, 0, len(header))
	if len(features) > 0 {
		for _, name := range header {
			f := feature.Find(features, name)
			if f == nil {
				return nil, fmt.Errorf("parsing header: reference to unknown feature %s", name)
			}
			columns = append(columns, f)
		}
		for _, f := range features {
			if feature.Index(columns, f.Name()) < 0 {
				return nil, fmt.Errorf("parsing header: missing column for feature %s", f.Name())
			}
		}
		return columns, nil
	}
	for i, name := range header {
		numeric := len(records) > 0
		for _, row := range records {
			if n, err := feature.ParseNumber(row[i]); err != nil || math.IsNaN(n) {
				numeric = false
				break
			}
		}
		if numeric {
			columns = append(columns, feature.NewNumericFeature(name))
		} else {
			columns = append(columns, feature.NewTextFeature(name))
		}
	}
	return columns, nil
}

func parseSampleFromRow(row []string, columns []feature.Feature) (dataset.Sample, error) {
	featureValues := make(map[string]interface{}, len(columns))
	for i, f := range columns {
		v := row[i]
		if v == "" {
			return nil, fmt.Errorf("empty value for feature %s", f.Name())
		}
		var value interface{} = v
		if df, ok := f.(*feature.DiscreteFeature); ok {
			var err error
			value, err = df.ParseValue(v)
			if err != nil {
				return nil, err
			}
		}
		if ok, err := f.Valid(value); !ok {
			return nil, fmt.Errorf("invalid value %v for feature %s: %v", value, f.Name(), err)
		}
		featureValues[f.Name()] = value
	}
	return dataset.NewSample(featureValues), nil
}

func (cw *csvWriter) Count() int {
	return cw.count
}

func (cw *csvWriter) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	for n := 0; n < len(samples); n++ {
		err := cw.WriteSample(ctx, samples[n])
		if err != nil {
			return n, err
		}
	}
	return len(samples), nil
}

func (cw *csvWriter) WriteSample(ctx context.Context, sample dataset.Sample) error {
	record := make([]string, len(cw.features))
	for j, f := range cw.features {
		v, err := sample.ValueFor(ctx, f)
		if err != nil {
			return err
		}
		record[j] = feature.Format(v)
	}
	err := cw.w.Write(record)
	if err != nil {
		return fmt.Errorf("writing CSV row for sample %d: %v", cw.count+1, err)
	}
	cw.count++
	return nil
}

func (cw *csvWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}
