package orchard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pbanos/orchard/dataset"
	"github.com/pbanos/orchard/feature"
	"github.com/pbanos/orchard/queue"
	"github.com/pbanos/orchard/rule"
	"github.com/pbanos/orchard/tree"
	"github.com/sirupsen/logrus"
)

var (
	// ErrAlreadyGrown is returned when growing a RuleTree a second time.
	ErrAlreadyGrown = errors.New("rule tree already grown")
	// ErrNotGrown is returned when extracting rules from a RuleTree that
	// has not been successfully grown.
	ErrNotGrown = errors.New("rule tree not grown")
)

type settings struct {
	logger   logrus.FieldLogger
	observer Observer
}

// Option customizes a RuleTree or an Orchard.
type Option func(*settings)

// WithLogger makes the miner log its progress on the given logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithObserver makes the miner notify its progress to the given observer.
func WithObserver(o Observer) Option {
	return func(s *settings) {
		s.observer = o
	}
}

func newSettings(opts []Option) *settings {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	s := &settings{logger: discard, observer: nopObserver{}}
	for _, o := range opts {
		o(s)
	}
	return s
}

/*
RuleTree grows a tree of rules for a target feature of a dataset and
flattens it into rules. A RuleTree is grown once and is not safe for
concurrent use; the dataset is only read.
*/
type RuleTree struct {
	dataset dataset.Dataset
	target  feature.Feature
	forced  feature.Feature
	policy  Policy
	store   tree.NodeStore
	logger  logrus.FieldLogger
	obs     Observer
	total   int
	started bool
	tree    *tree.Tree
}

/*
New takes a dataset, the name of the target feature, a policy, a node store
and options and returns a RuleTree ready to grow or a *ConfigError if the
target or the forced feature of the policy are not features of the dataset or
the policy is invalid. A nil node store means the nodes are kept in memory.
*/
func New(ds dataset.Dataset, target string, p Policy, ns tree.NodeStore, opts ...Option) (*RuleTree, error) {
	if ds == nil {
		return nil, &ConfigError{"dataset", "is missing"}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	features := ds.Features()
	t := feature.Find(features, target)
	if t == nil {
		return nil, &ConfigError{"target", fmt.Sprintf("%q is not a feature of the dataset", target)}
	}
	var forced feature.Feature
	if p.ForcedFeature != "" {
		forced = feature.Find(features, p.ForcedFeature)
		if forced == nil {
			return nil, &ConfigError{"forced feature", fmt.Sprintf("%q is not a feature of the dataset", p.ForcedFeature)}
		}
		if forced.Name() == t.Name() {
			forced = nil
		}
	}
	if ns == nil {
		ns = tree.NewMemoryNodeStore()
	}
	s := newSettings(opts)
	return &RuleTree{
		dataset: ds,
		target:  t,
		forced:  forced,
		policy:  p,
		store:   ns,
		logger:  s.logger.WithField("target", t.Name()),
		obs:     s.observer,
	}, nil
}

// Target returns the feature the tree mines rules for.
func (rt *RuleTree) Target() feature.Feature {
	return rt.target
}

// Tree returns the grown tree, nil before a successful Grow.
func (rt *RuleTree) Tree() *tree.Tree {
	return rt.tree
}

/*
Grow takes a context and grows the tree breadth-first until every node has
been expanded. It can only be called once: later calls return
ErrAlreadyGrown. It returns an error if the context is done, the dataset
cannot be queried or the node store fails, in which case the tree is left
ungrown.
*/
func (rt *RuleTree) Grow(ctx context.Context) error {
	if rt.started {
		return ErrAlreadyGrown
	}
	rt.started = true
	start := time.Now()
	q := queue.New()
	t, err := rt.seed(ctx, q)
	if err != nil {
		return fmt.Errorf("seeding tree for %s: %w", rt.target.Name(), err)
	}
	nodes := 1
	for task, ok := q.Pull(); ok; task, ok = q.Pull() {
		if err = ctx.Err(); err != nil {
			return err
		}
		tasks, err := rt.branchOut(ctx, task)
		if err != nil {
			return fmt.Errorf("expanding node %s of tree for %s: %w", task.ID(), rt.target.Name(), err)
		}
		rt.obs.NodeExpanded(rt.target.Name(), len(tasks))
		for _, st := range tasks {
			q.Push(st)
		}
		nodes += len(tasks)
	}
	rt.tree = t
	elapsed := time.Since(start)
	rt.obs.TreeGrown(rt.target.Name(), nodes, elapsed)
	rt.logger.WithFields(logrus.Fields{"nodes": nodes, "duration": elapsed}).Debug("Tree grown")
	return nil
}

/*
seed computes the marginal supports of the target, creates the root node on
the store and pushes the task to expand it.
*/
func (rt *RuleTree) seed(ctx context.Context, q *queue.Queue) (*tree.Tree, error) {
	total, err := rt.dataset.Count(ctx)
	if err != nil {
		return nil, err
	}
	rt.total = total
	marginals := make(map[string]float64)
	if total > 0 {
		counts, err := rt.dataset.CountFeatureValues(ctx, rt.target)
		if err != nil {
			return nil, err
		}
		for v, c := range counts {
			marginals[v] = float64(c) / float64(total)
		}
	}
	cm, err := tree.NewConfidenceMapFromSet(ctx, rt.dataset, rt.target, rt.policy.MinConfidence)
	if err != nil {
		return nil, err
	}
	support, err := dataset.Support(ctx, rt.dataset, nil)
	if err != nil {
		return nil, err
	}
	root := &tree.Node{Support: support, Confidence: cm}
	err = rt.store.Create(ctx, root)
	if err != nil {
		return nil, err
	}
	q.Push(&queue.Task{Node: root, Dataset: rt.dataset})
	return tree.New(root.ID, rt.store, rt.target, marginals), nil
}

/*
branchOut develops the node of the task: it decides whether the node is a
leaf and otherwise creates its children on the store, returning the tasks to
expand them.
*/
func (rt *RuleTree) branchOut(ctx context.Context, task *queue.Task) (tasks []*queue.Task, e error) {
	n := task.Node
	features := rt.dataset.Features()
	if len(n.Predicate)+1 >= len(features) {
		return nil, nil
	}
	entropy, err := task.Dataset.Entropy(ctx, rt.target)
	if err != nil {
		return nil, err
	}
	if entropy == 0 {
		return nil, nil
	}
	if rt.policy.MaxDepth > 0 && task.Depth >= rt.policy.MaxDepth {
		return nil, nil
	}
	minRank := -1
	var forced feature.Feature
	if n.IsRoot() {
		forced = rt.forced
	} else if rt.policy.OrderedSplits {
		minRank = feature.Index(features, n.Criterion.Feature().Name())
	}
	split, err := SelectFeature(ctx, task.Dataset, rt.target, features, n.Predicate, forced, minRank)
	if err != nil {
		return nil, err
	}
	if split == nil {
		return nil, nil
	}
	values, err := task.Dataset.FeatureValues(ctx, split.Feature)
	if err != nil {
		return nil, err
	}
	defer func() {
		if e == nil {
			e = rt.store.Store(ctx, n)
		}
	}()
	n.SubtreeFeature = split.Feature
	for _, v := range values {
		if rt.policy.MaxWidth > 0 && len(n.SubtreeIDs) >= rt.policy.MaxWidth {
			break
		}
		criterion := feature.NewDiscreteCriterion(split.Feature, v)
		subset, err := task.Dataset.SubsetWith(ctx, criterion)
		if err != nil {
			return nil, err
		}
		count, err := subset.Count(ctx)
		if err != nil {
			return nil, err
		}
		support := float64(count) / float64(rt.total)
		if support < rt.policy.MinSupport {
			continue
		}
		cm, err := tree.NewConfidenceMapFromSet(ctx, subset, rt.target, rt.policy.MinConfidence)
		if err != nil {
			return nil, err
		}
		child := &tree.Node{
			ParentID:   n.ID,
			Criterion:  criterion,
			Predicate:  n.Predicate.And(criterion),
			Depth:      task.Depth + 1,
			Support:    support,
			Confidence: cm,
		}
		err = rt.store.Create(ctx, child)
		if err != nil {
			return nil, err
		}
		n.SubtreeIDs = append(n.SubtreeIDs, child.ID)
		tasks = append(tasks, &queue.Task{Node: child, Dataset: subset, Depth: task.Depth + 1})
	}
	return tasks, nil
}

/*
Rules takes a context and returns the rules of the grown tree: one per value
on the confidence map of every non-root node, with the clauses of the node
predicate as antecedent and target=value as consequent. Nodes are visited
depth-first, so rules of a node come before those of its descendants. It
returns ErrNotGrown if the tree has not been grown. Calling it repeatedly
yields the same rules.
*/
func (rt *RuleTree) Rules(ctx context.Context) (rule.Table, error) {
	if rt.tree == nil {
		return nil, ErrNotGrown
	}
	t := rt.tree
	rules := rule.Table{}
	err := t.Traverse(ctx, false, func(ctx context.Context, n *tree.Node) error {
		if n.IsRoot() {
			return nil
		}
		antecedent := rule.NewItemSet(n.Predicate.Clauses()...)
		for _, entry := range n.Confidence.Entries() {
			marginal := t.Marginal(entry.Value)
			rules = append(rules, rule.Rule{
				Antecedent:        antecedent,
				Consequent:        rule.NewItemSet(feature.NewDiscreteCriterion(t.Target, entry.Value).String()),
				Support:           n.Support,
				Confidence:        entry.Confidence,
				Lift:              rule.LiftOf(entry.Confidence, marginal),
				ConsequentSupport: marginal,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	rt.obs.RulesExtracted(t.Target.Name(), len(rules))
	rt.logger.WithField("rules", len(rules)).Debug("Rules extracted")
	return rules, nil
}
