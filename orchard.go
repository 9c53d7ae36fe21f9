package orchard

import (
	"context"
	"fmt"
	"time"

	"github.com/pbanos/orchard/dataset"
	"github.com/pbanos/orchard/feature"
	"github.com/pbanos/orchard/rule"
	"github.com/pbanos/orchard/tree"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

/*
NodeStoreFactory returns the node store to grow the tree for a target on.
*/
type NodeStoreFactory func(ctx context.Context, target string) (tree.NodeStore, error)

/*
Orchard mines rules for several targets of a dataset, growing a RuleTree
for each of them.
*/
type Orchard struct {
	// Policy applies to every tree.
	Policy Policy
	// Targets lists the names of the features to grow trees for,
	// every feature of the dataset when empty.
	Targets []string
	// Workers bounds the number of trees grown at once, 0 for no bound.
	Workers int
	// NodeStores provides the node store of every tree, nil to keep
	// nodes in memory.
	NodeStores NodeStoreFactory
	// TreeGrown, when set, is called with every tree successfully grown.
	// It may be called concurrently.
	TreeGrown func(ctx context.Context, t *tree.Tree) error

	settings *settings
}

/*
NewOrchard takes a policy and options and returns an Orchard for every
feature of the datasets it is given, with no bound on workers.
*/
func NewOrchard(p Policy, opts ...Option) *Orchard {
	return &Orchard{Policy: p, settings: newSettings(opts)}
}

/*
TargetError describes the failure to mine rules for a target.
*/
type TargetError struct {
	Target string
	Err    error
}

func (te *TargetError) Error() string {
	return fmt.Sprintf("target %s: %v", te.Target, te.Err)
}

func (te *TargetError) Unwrap() error {
	return te.Err
}

/*
HarvestError gathers the failures of the targets that could not be mined.
The rules of the rest of targets are returned alongside it.
*/
type HarvestError struct {
	Failures []*TargetError
}

func (he *HarvestError) Error() string {
	return fmt.Sprintf("mining %d target(s) failed: %v", len(he.Failures), multierr.Combine(he.Errors()...))
}

// Errors returns the failures of the harvest as a slice of errors.
func (he *HarvestError) Errors() []error {
	errs := make([]error, 0, len(he.Failures))
	for _, f := range he.Failures {
		errs = append(errs, f)
	}
	return errs
}

/*
Mine takes a context and a dataset and returns the rules of the trees grown
for every target, concatenated in target order.

Configuration problems common to every target (an invalid policy or unknown
target names) are returned as a *ConfigError before any tree is grown. A
target whose tree fails does not stop the rest: the rules of the targets that
succeeded are returned along with a *HarvestError listing every failure.
Once the context is done no further trees are started, and the targets left
fail with the context error.
*/
func (o *Orchard) Mine(ctx context.Context, ds dataset.Dataset) (rule.Table, error) {
	if o.settings == nil {
		o.settings = newSettings(nil)
	}
	if ds == nil {
		return nil, &ConfigError{"dataset", "is missing"}
	}
	if err := o.Policy.Validate(); err != nil {
		return nil, err
	}
	targets, err := o.targets(ds)
	if err != nil {
		return nil, err
	}
	if o.Policy.ForcedFeature != "" && feature.Find(ds.Features(), o.Policy.ForcedFeature) == nil {
		return nil, &ConfigError{"forced feature", fmt.Sprintf("%q is not a feature of the dataset", o.Policy.ForcedFeature)}
	}
	start := time.Now()
	results := make([]rule.Table, len(targets))
	failures := make([]*TargetError, len(targets))
	g := &errgroup.Group{}
	if o.Workers > 0 {
		g.SetLimit(o.Workers)
	}
	for i, target := range targets {
		i, target := i, target
		if err := ctx.Err(); err != nil {
			failures[i] = &TargetError{target, err}
			continue
		}
		g.Go(func() error {
			rules, err := o.mineTarget(ctx, ds, target)
			if err != nil {
				failures[i] = &TargetError{target, err}
				o.settings.observer.TargetFailed(target)
				o.settings.logger.WithField("target", target).WithError(err).Warn("Mining target failed")
				return nil
			}
			results[i] = rules
			return nil
		})
	}
	g.Wait()
	table := rule.Concat(results...)
	o.settings.logger.WithFields(logrus.Fields{
		"targets":  len(targets),
		"rules":    len(table),
		"duration": time.Since(start),
	}).Info("Mining finished")
	he := &HarvestError{}
	for _, f := range failures {
		if f != nil {
			he.Failures = append(he.Failures, f)
		}
	}
	if len(he.Failures) > 0 {
		return table, he
	}
	return table, nil
}

func (o *Orchard) mineTarget(ctx context.Context, ds dataset.Dataset, target string) (rule.Table, error) {
	var ns tree.NodeStore
	if o.NodeStores != nil {
		var err error
		ns, err = o.NodeStores(ctx, target)
		if err != nil {
			return nil, fmt.Errorf("creating node store: %w", err)
		}
		defer ns.Close(ctx)
	}
	opts := []Option{WithLogger(o.settings.logger), WithObserver(o.settings.observer)}
	rt, err := New(ds, target, o.Policy, ns, opts...)
	if err != nil {
		return nil, err
	}
	err = rt.Grow(ctx)
	if err != nil {
		return nil, err
	}
	if o.TreeGrown != nil {
		err = o.TreeGrown(ctx, rt.Tree())
		if err != nil {
			return nil, err
		}
	}
	return rt.Rules(ctx)
}

func (o *Orchard) targets(ds dataset.Dataset) ([]string, error) {
	features := ds.Features()
	if len(o.Targets) == 0 {
		return feature.Names(features), nil
	}
	seen := make(map[string]bool, len(o.Targets))
	targets := make([]string, 0, len(o.Targets))
	for _, t := range o.Targets {
		if feature.Find(features, t) == nil {
			return nil, &ConfigError{"target", fmt.Sprintf("%q is not a feature of the dataset", t)}
		}
		if !seen[t] {
			seen[t] = true
			targets = append(targets, t)
		}
	}
	return targets, nil
}
