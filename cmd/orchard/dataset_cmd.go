package main

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/pbanos/orchard/dataset/csv"
	"github.com/pbanos/orchard/dataset/mongodataset"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func datasetCmd(rootConfig *rootCmdConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Copy datasets between formats",
		Long:  `Read a dataset from any supported input and write it as CSV or to a MongoDB collection, checking it against the metadata on the way.`,
		Run: func(cmd *cobra.Command, args []string) {
			v := rootConfig.v
			logger := rootConfig.logger
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()
			ds, err := readInput(ctx, v, logger)
			if err != nil {
				rootConfig.fail(2, err, "Reading dataset failed")
			}
			output := v.GetString("output")
			var written int
			if strings.HasPrefix(output, "mongodb://") {
				c, err := mongodataset.Dial(output, v.GetString("output-table"))
				if err != nil {
					rootConfig.fail(3, err, "Opening output collection failed")
				}
				defer c.Close()
				written, err = c.Write(ctx, ds)
				if err != nil {
					rootConfig.fail(4, err, "Writing dataset failed")
				}
			} else {
				f := os.Stdout
				if output != "" {
					f, err = os.Create(output)
					if err != nil {
						rootConfig.fail(3, err, "Opening output file failed")
					}
					defer f.Close()
				}
				err = csv.WriteCSVDataset(ctx, f, ds)
				if err != nil {
					rootConfig.fail(4, err, "Writing dataset failed")
				}
				written, _ = ds.Count(ctx)
			}
			logger.WithFields(logrus.Fields{"samples": written, "output": output}).Info("Dataset written")
		},
	}
	addInputFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "path to a CSV file or a MongoDB URL to write the dataset to (defaults to STDOUT in CSV)")
	cmd.Flags().String("output-table", mongodataset.DefaultCollection, "collection samples are written to on MongoDB outputs")
	return cmd
}
