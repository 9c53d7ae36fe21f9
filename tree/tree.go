package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/orchard/feature"
)

// Tree represents a rule tree grown for a target feature. It is composed
// of a NodeStore where all its nodes are stored, the id for the root node
// of the tree, the target feature and the support of every target value
// over the whole dataset, keyed by the formatted value.
type Tree struct {
	NodeStore
	RootID    string
	Target    feature.Feature
	Marginals map[string]float64
}

// New takes the ID for the root Node, a NodeStore, a target feature and the
// marginal supports of the target values and returns a tree composed of the
// nodes in the NodeStore connected to the node with the given root ID.
func New(rootID string, nodeStore NodeStore, target feature.Feature, marginals map[string]float64) *Tree {
	return &Tree{nodeStore, rootID, target, marginals}
}

// Marginal returns the support of the given target value over the whole
// dataset, 0 if the value was never observed.
func (t *Tree) Marginal(value interface{}) float64 {
	return t.Marginals[feature.Format(value)]
}

// Traverse takes a context, bottomup boolean and an
// error-returning function that takes a context and a node
// as parameters, and goes depth-first through the tree running
// the function with the context and every traversed node.
// Traverse will call the function with a parent node before
// calling it for its children if bottomup is false, and
// call it after its children if bottomup is true.
// Children are visited in the order of their parent's SubtreeIDs.
// The traversing is aborted on the first error, be it from
// the context, the node store or the function.
func (t *Tree) Traverse(ctx context.Context, bottomup bool, f func(context.Context, *Node) error) error {
	n, err := t.get(ctx, t.RootID)
	if err != nil {
		return err
	}
	return t.traverse(ctx, n, bottomup, f)
}

func (t *Tree) traverse(ctx context.Context, n *Node, bottomup bool, f func(context.Context, *Node) error) error {
	err := ctx.Err()
	if err != nil {
		return err
	}
	if !bottomup {
		if err = f(ctx, n); err != nil {
			return err
		}
	}
	for _, snID := range n.SubtreeIDs {
		sn, err := t.get(ctx, snID)
		if err != nil {
			return err
		}
		err = t.traverse(ctx, sn, bottomup, f)
		if err != nil {
			return err
		}
	}
	if bottomup {
		return f(ctx, n)
	}
	return nil
}

/*
Nodes returns every node of the tree in breadth-first order: the order in
which they were created while growing.
*/
func (t *Tree) Nodes(ctx context.Context) ([]*Node, error) {
	root, err := t.get(ctx, t.RootID)
	if err != nil {
		return nil, err
	}
	nodes := []*Node{root}
	for i := 0; i < len(nodes); i++ {
		for _, id := range nodes[i].SubtreeIDs {
			n, err := t.get(ctx, id)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

func (t *Tree) get(ctx context.Context, id string) (*Node, error) {
	n, err := t.NodeStore.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("retrieving node %v: %v", id, err)
	}
	if n == nil {
		return nil, fmt.Errorf("node %v not found", id)
	}
	return n, nil
}

func (t *Tree) String() string {
	return t.subtreeString(t.RootID)
}

func (t *Tree) subtreeString(nodeID string) string {
	n, err := t.get(context.TODO(), nodeID)
	if err != nil {
		return fmt.Sprintf("ERROR: %s\n", err.Error())
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", nodeID)
	if n.Criterion != nil {
		fmt.Fprintf(&b, " %v", n.Criterion)
	}
	fmt.Fprintf(&b, " support=%v %v\n", n.Support, n.Confidence)
	for i, subtreeID := range n.SubtreeIDs {
		last := i == len(n.SubtreeIDs)-1
		for j, line := range strings.Split(t.subtreeString(subtreeID), "\n") {
			if len(line) == 0 {
				continue
			}
			switch {
			case j == 0:
				fmt.Fprintf(&b, "|__%s\n", line)
			case last:
				fmt.Fprintf(&b, "   %s\n", line)
			default:
				fmt.Fprintf(&b, "|  %s\n", line)
			}
		}
	}
	return b.String()
}
