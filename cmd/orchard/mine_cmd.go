package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/pbanos/orchard"
	"github.com/pbanos/orchard/dataset"
	"github.com/pbanos/orchard/dataset/sqldataset/pgadapter"
	"github.com/pbanos/orchard/dataset/sqldataset/sqlite3adapter"
	fjson "github.com/pbanos/orchard/feature/json"
	"github.com/pbanos/orchard/itemset"
	"github.com/pbanos/orchard/metrics"
	"github.com/pbanos/orchard/report"
	"github.com/pbanos/orchard/rule"
	"github.com/pbanos/orchard/tree"
	tjson "github.com/pbanos/orchard/tree/json"
	"github.com/pbanos/orchard/tree/redisstore"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func mineCmd(rootConfig *rootCmdConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mine",
		Short: "Mine rules from a dataset",
		Long: `Mine "if antecedent then consequent" rules from a categorical dataset.

The tree method grows a decision tree per target feature and turns every
value confident enough on a node into a rule. The apriori and fpgrowth
methods find the frequent itemsets of the dataset and derive rules from them.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			v := rootConfig.v
			if v.GetString("consequent") != "" && v.GetString("antecedent") == "" {
				return errors.New("consequent filter requires an antecedent filter")
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			v := rootConfig.v
			logger := rootConfig.logger
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()
			ds, err := readInput(ctx, v, logger)
			if err != nil {
				rootConfig.fail(2, err, "Reading dataset failed")
			}
			count, err := ds.Count(ctx)
			if err != nil {
				rootConfig.fail(2, err, "Counting samples failed")
			}
			logger.WithFields(logrus.Fields{"samples": count, "features": len(ds.Features())}).Info("Dataset read")
			var collector *metrics.Collector
			if v.GetString("metrics-file") != "" {
				collector = metrics.New()
			}
			rules, mineErr := mine(ctx, v, logger, ds, collector)
			var he *orchard.HarvestError
			if mineErr != nil && !errors.As(mineErr, &he) {
				rootConfig.fail(3, mineErr, "Mining rules failed")
			}
			rules = rules.Dedupe()
			if a := v.GetString("antecedent"); a != "" {
				rules, err = rules.Filter(a, v.GetString("consequent"))
				if err != nil {
					rootConfig.fail(4, err, "Filtering rules failed")
				}
			}
			r, err := report.New(rules, report.Options{
				Metric:   v.GetString("metric"),
				Decimals: v.GetInt("decimals"),
				Verbose:  v.GetBool("verbose"),
			})
			if err != nil {
				rootConfig.fail(5, err, "Building report failed")
			}
			err = writeReport(ctx, v, r)
			if err != nil {
				rootConfig.fail(6, err, "Writing report failed")
			}
			logger.WithField("rules", len(r.Records)).Info("Report written")
			if collector != nil {
				if err = collector.WriteToTextfile(v.GetString("metrics-file")); err != nil {
					rootConfig.fail(7, err, "Writing metrics failed")
				}
			}
			if he != nil {
				for _, f := range he.Failures {
					logger.WithField("target", f.Target).WithError(f.Err).Error("Target not mined")
				}
				os.Exit(8)
			}
		},
	}
	addInputFlags(cmd)
	flags := cmd.Flags()
	flags.String("method", "tree", "mining method: tree, apriori or fpgrowth")
	flags.Float64("min-support", orchard.DefaultMinSupport, "minimum support of rule antecedents")
	flags.Float64("min-threshold", orchard.DefaultMinConfidence, "confidence floor for the tree method, minimum value of the chosen metric for the itemset methods")
	flags.String("metric", rule.Confidence, "metric to rank rules by after support: "+strings.Join(rule.Metrics, ", "))
	flags.Int("max-width", 0, "maximum number of children per tree node (defaults to 0: no limit)")
	flags.Int("max-depth", 0, "maximum depth of tree nodes (defaults to 0: no limit)")
	flags.String("forced-feature", "", "feature the root of every tree is split on when possible")
	flags.StringSlice("targets", nil, "features to mine rules for with the tree method (defaults to every feature)")
	flags.Int("workers", 0, "maximum number of trees grown at once (defaults to 0: no limit)")
	flags.Bool("ordered-splits", false, "only split nodes on features declared after the one their parent was split on")
	flags.StringP("output", "o", "", "path to a CSV (.csv), JSON (.json), Excel (.xlsx) or SQLite3 (.db) file, or a PostgreSQL URL to write rules to (defaults to a table on STDOUT)")
	flags.String("output-table", "rules", "table rules are written to on database outputs")
	flags.Int("decimals", report.DefaultDecimals, "decimals metric values are rounded to")
	flags.BoolP("verbose", "v", false, "report every metric instead of just support and the chosen one")
	flags.String("antecedent", "", `only report rules with this antecedent, as in "a=1 & b=2"`)
	flags.String("consequent", "", `only report rules with this consequent (requires antecedent)`)
	flags.String("tree-output", "", "directory to write every grown tree to as JSON")
	flags.String("node-store", "", "redis URL to keep tree nodes on instead of memory")
	flags.String("metrics-file", "", "path to write mining metrics to in Prometheus text format")
	return cmd
}

func mine(ctx context.Context, v *viper.Viper, logger logrus.FieldLogger, ds dataset.Dataset, collector *metrics.Collector) (rule.Table, error) {
	method := v.GetString("method")
	minSupport := v.GetFloat64("min-support")
	minThreshold := v.GetFloat64("min-threshold")
	if method != "tree" {
		miner, err := itemset.Miner(method)
		if err != nil {
			return nil, err
		}
		enc, err := itemset.OneHot(ctx, ds)
		if err != nil {
			return nil, err
		}
		itemsets, err := miner(ctx, enc, minSupport)
		if err != nil {
			return nil, err
		}
		logger.WithFields(logrus.Fields{"method": method, "itemsets": len(itemsets)}).Info("Frequent itemsets found")
		return itemset.AssociationRules(itemsets, v.GetString("metric"), minThreshold)
	}
	opts := []orchard.Option{orchard.WithLogger(logger)}
	if collector != nil {
		opts = append(opts, orchard.WithObserver(collector))
	}
	o := orchard.NewOrchard(orchard.Policy{
		MinSupport:    minSupport,
		MinConfidence: minThreshold,
		MaxWidth:      v.GetInt("max-width"),
		MaxDepth:      v.GetInt("max-depth"),
		ForcedFeature: v.GetString("forced-feature"),
		OrderedSplits: v.GetBool("ordered-splits"),
	}, opts...)
	o.Targets = v.GetStringSlice("targets")
	o.Workers = v.GetInt("workers")
	ned := tjson.NewNodeEncodeDecoder(fjson.NewCriteriaEncodeDecoder(ds.Features()), ds.Features())
	if url := v.GetString("node-store"); url != "" {
		o.NodeStores = func(ctx context.Context, target string) (tree.NodeStore, error) {
			return redisstore.Dial(url, "orchard:"+target, ned)
		}
	}
	if dir := v.GetString("tree-output"); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		o.TreeGrown = func(ctx context.Context, t *tree.Tree) error {
			return writeTree(ctx, filepath.Join(dir, t.Target.Name()+".json"), t, ned)
		}
	}
	return o.Mine(ctx, ds)
}

func writeTree(ctx context.Context, path string, t *tree.Tree, ned tjson.NodeEncodeDecoder) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = tjson.WriteJSONTree(ctx, t, ned, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func writeReport(ctx context.Context, v *viper.Viper, r *report.Report) error {
	output := v.GetString("output")
	switch {
	case output == "":
		return report.WriteText(os.Stdout, r)
	case strings.HasPrefix(output, "postgresql://") || strings.HasPrefix(output, "postgres://"):
		adapter, err := pgadapter.New(output, v.GetInt("max-db-conns"))
		if err != nil {
			return err
		}
		defer adapter.Close()
		return report.WriteSQL(ctx, adapter, v.GetString("output-table"), r)
	case strings.HasSuffix(output, ".db"):
		adapter, err := sqlite3adapter.New(output, v.GetInt("max-db-conns"))
		if err != nil {
			return err
		}
		defer adapter.Close()
		return report.WriteSQL(ctx, adapter, v.GetString("output-table"), r)
	}
	var write func(io.Writer, *report.Report) error
	switch filepath.Ext(output) {
	case ".csv":
		write = report.WriteCSV
	case ".json":
		write = report.WriteJSON
	case ".xlsx":
		write = func(w io.Writer, r *report.Report) error { return report.WriteXLSX(w, r, "") }
	case ".txt":
		write = report.WriteText
	default:
		return fmt.Errorf("unsupported output format for %s", output)
	}
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	err = write(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
