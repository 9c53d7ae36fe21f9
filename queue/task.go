package queue

import (
	"fmt"

	"github.com/pbanos/orchard/dataset"
	"github.com/pbanos/orchard/tree"
)

// Task represents a tree.Node to be developed
// on a tree.Tree.
type Task struct {
	// The node to be developed
	Node *tree.Node
	// The subset of the dataset with the samples
	// satisfying the predicate of the node.
	Dataset dataset.Dataset
	// The depth of the node on the tree
	Depth int
}

// ID returns a string that identifies the
// task, the ID of its Node.
func (t *Task) ID() string {
	return t.Node.ID
}

func (t *Task) String() string {
	return fmt.Sprintf("{Task %s depth %d}", t.Node.ID, t.Depth)
}
