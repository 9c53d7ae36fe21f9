package json

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pbanos/orchard/feature"
	"github.com/pbanos/orchard/tree"
)

/*
WriteJSONTree takes a context.Context, a pointer to a tree.Tree
a NodeEncodeDecoder and an io.Writer and serializes the given tree
as JSON onto the io.Writer.
A tree is serialized as a JSON object with the following fields:
  - "rootID": a string with the ID of the node at the root of the tree
  - "target": a string with the name of the target feature of the tree
  - "marginals": an object with the support of every target value
  - "nodes": an array containing the nodes of the tree in depth-first
    order serialized by the given NodeEncodeDecoder.

An error is returned if the tree cannot be traversed, serialized or written
onto the io.Writer.
*/
func WriteJSONTree(ctx context.Context, t *tree.Tree, ned NodeEncodeDecoder, w io.Writer) error {
	err := writeJSONTreeHeader(t, w)
	if err != nil {
		return err
	}
	var i int
	err = t.Traverse(ctx, false, func(ctx context.Context, n *tree.Node) error {
		err := writeNode(i, n, ned, w)
		i++
		return err
	})
	if err != nil {
		return err
	}
	_, err = w.Write([]byte(`]}`))
	return err
}

/*
ReadJSONTree takes a context.Context, a pointer to a tree.Tree, a
NodeEncodeDecoder, the features the tree may refer to and an io.Reader and
unmarshals the contents of the io.Reader onto the given tree, storing its
nodes on the tree's NodeStore. The JSON is expected to have the structure
WriteJSONTree produces.
*/
func ReadJSONTree(ctx context.Context, t *tree.Tree, ned NodeEncodeDecoder, features []feature.Feature, r io.Reader) error {
	jt := &struct {
		RootID    string             `json:"rootID"`
		Target    string             `json:"target"`
		Marginals map[string]float64 `json:"marginals"`
		Nodes     []json.RawMessage  `json:"nodes"`
	}{}
	err := json.NewDecoder(r).Decode(jt)
	if err != nil {
		return err
	}
	target := feature.Find(features, jt.Target)
	if target == nil {
		return fmt.Errorf("unknown target feature %q", jt.Target)
	}
	if jt.RootID == "" {
		return fmt.Errorf("no root node id available")
	}
	t.Target = target
	t.RootID = jt.RootID
	t.Marginals = jt.Marginals
	for _, jn := range jt.Nodes {
		n, err := ned.Decode(jn)
		if err != nil {
			return err
		}
		err = t.NodeStore.Store(ctx, n)
		if err != nil {
			return err
		}
	}
	return nil
}

func writeJSONTreeHeader(t *tree.Tree, w io.Writer) error {
	jRootID, err := json.Marshal(t.RootID)
	if err != nil {
		return err
	}
	jTarget, err := json.Marshal(t.Target.Name())
	if err != nil {
		return err
	}
	marginals := t.Marginals
	if marginals == nil {
		marginals = map[string]float64{}
	}
	jMarginals, err := json.Marshal(marginals)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, `{"rootID":%s,"target":%s,"marginals":%s,"nodes":[`, jRootID, jTarget, jMarginals)
	return err
}

func writeNode(i int, n *tree.Node, ned NodeEncodeDecoder, w io.Writer) error {
	if i != 0 {
		_, err := w.Write([]byte(","))
		if err != nil {
			return err
		}
	}
	jn, err := ned.Encode(n)
	if err != nil {
		return err
	}
	_, err = w.Write(jn)
	return err
}
