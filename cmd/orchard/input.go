package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/orchard/dataset"
	"github.com/pbanos/orchard/dataset/csv"
	"github.com/pbanos/orchard/dataset/mongodataset"
	"github.com/pbanos/orchard/dataset/sqldataset"
	"github.com/pbanos/orchard/dataset/sqldataset/pgadapter"
	"github.com/pbanos/orchard/dataset/sqldataset/sqlite3adapter"
	"github.com/pbanos/orchard/dataset/xlsx"
	"github.com/pbanos/orchard/feature"
	"github.com/pbanos/orchard/feature/yaml"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// addInputFlags adds the flags to locate and read a dataset to the command.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "path to an input CSV (.csv), Excel (.xlsx) or SQLite3 (.db) file, or a PostgreSQL (postgresql://...) or MongoDB (mongodb://...) URL (defaults to STDIN, interpreted as CSV)")
	cmd.Flags().StringP("metadata", "m", "", "path to a YML file declaring the features of the input and their order (defaults to inferring them from the input)")
	cmd.Flags().String("table", "samples", "table or collection holding the samples on database inputs")
	cmd.Flags().String("sheet", "", "sheet holding the samples on Excel inputs (defaults to the first one)")
	cmd.Flags().Int("max-db-conns", 0, "limit to DB connections opened at a time (defaults to 0: no limit)")
	cmd.Flags().Bool("memory-intensive", false, "force the use of memory-intensive subsetting to decrease time at the cost of increasing memory use")
	cmd.Flags().Bool("cpu-intensive", false, "force the use of cpu-intensive subsetting to decrease memory use at the cost of increasing time")
}

/*
readInput reads the features declared on the metadata file, if any, and the
dataset at the configured input.
*/
func readInput(ctx context.Context, v *viper.Viper, logger logrus.FieldLogger) (dataset.Dataset, error) {
	if v.GetBool("memory-intensive") && v.GetBool("cpu-intensive") {
		return nil, fmt.Errorf("cannot set both memory-intensive and cpu-intensive flags at the same time")
	}
	var features []feature.Feature
	if md := v.GetString("metadata"); md != "" {
		logger.WithField("metadata", md).Debug("Reading features")
		var err error
		features, err = yaml.ReadFeaturesFromFile(md)
		if err != nil {
			return nil, err
		}
	}
	dg := datasetGenerator(v)
	input := v.GetString("input")
	table := v.GetString("table")
	logger = logger.WithField("input", input)
	switch {
	case input == "":
		logger.Debug("Reading dataset from STDIN")
		return csv.ReadDatasetFromFilePath("", features, dg)
	case strings.HasPrefix(input, "postgresql://") || strings.HasPrefix(input, "postgres://"):
		logger.Debug("Reading dataset from PostgreSQL")
		adapter, err := pgadapter.New(input, v.GetInt("max-db-conns"))
		if err != nil {
			return nil, err
		}
		defer adapter.Close()
		return sqldataset.ReadDataset(ctx, adapter, table, features, dg)
	case strings.HasPrefix(input, "mongodb://"):
		logger.Debug("Reading dataset from MongoDB")
		c, err := mongodataset.Dial(input, table)
		if err != nil {
			return nil, err
		}
		defer c.Close()
		return c.ReadDataset(ctx, features, dg)
	case strings.HasSuffix(input, ".db"):
		logger.Debug("Reading dataset from SQLite3")
		adapter, err := sqlite3adapter.New(input, v.GetInt("max-db-conns"))
		if err != nil {
			return nil, err
		}
		defer adapter.Close()
		return sqldataset.ReadDataset(ctx, adapter, table, features, dg)
	case strings.HasSuffix(input, ".xlsx"):
		logger.Debug("Reading dataset from Excel workbook")
		return xlsx.ReadDatasetFromFilePath(input, v.GetString("sheet"), features, dg)
	}
	logger.Debug("Reading dataset from CSV file")
	return csv.ReadDatasetFromFilePath(input, features, dg)
}

func datasetGenerator(v *viper.Viper) csv.DatasetGenerator {
	if v.GetBool("memory-intensive") {
		return csv.DatasetGenerator(dataset.NewMemoryIntensive)
	}
	if v.GetBool("cpu-intensive") {
		return csv.DatasetGenerator(dataset.NewCPUIntensive)
	}
	return csv.DatasetGenerator(dataset.New)
}
