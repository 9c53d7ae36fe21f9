package tree

import (
	"github.com/pbanos/orchard/feature"
)

/*
Node is a node of a rule tree
*/
type Node struct {
	// An ID to identify the node
	ID string
	// The ID for the parent of the node in the tree, empty for the root
	ParentID string
	// An slice with the IDs of the nodes directly under this node, in
	// the natural order of the values of the SubtreeFeature
	SubtreeIDs []string
	// The clause this node adds to its parent's predicate, nil at the root.
	Criterion feature.DiscreteCriterion
	// The conjunction of clauses on the path from the root to this node.
	Predicate feature.Predicate
	// Distance to the root, which has depth 0
	Depth int
	// Fraction of the rows of the whole dataset satisfying the predicate
	Support float64
	// Confidence for the target values above the confidence floor
	// among the rows satisfying the predicate
	Confidence *ConfidenceMap
	// The feature the node was split on, nil for leaves
	SubtreeFeature feature.Feature
}

// UsedFeatures returns the names of the features constrained on the path to
// the node.
func (n *Node) UsedFeatures() []string {
	return n.Predicate.Features()
}

// IsRoot tells whether the node is the root of its tree.
func (n *Node) IsRoot() bool {
	return n.Criterion == nil
}
