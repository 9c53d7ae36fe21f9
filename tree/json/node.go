package json

import (
	"encoding/json"
	"fmt"

	"github.com/pbanos/orchard/feature"
	fjson "github.com/pbanos/orchard/feature/json"
	"github.com/pbanos/orchard/tree"
)

/*
NodeEncodeDecoder is an interface for objects
that allow encoding nodes into slices of
bytes and decoding them back to nodes.
*/
type NodeEncodeDecoder interface {

	//Encode receives a *tree.Node
	//and returns a slice of bytes with the node
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(*tree.Node) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a *tree.Node decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (*tree.Node, error)
}

type nodeEncodeDecoder struct {
	fjson.CriteriaEncodeDecoder
	features []feature.Feature
}

type node struct {
	ID             string            `json:"id"`
	ParentID       string            `json:"pId,omitempty"`
	SubtreeIDs     []string          `json:"stIds,omitempty"`
	Predicate      []json.RawMessage `json:"p,omitempty"`
	Depth          int               `json:"d"`
	Support        float64           `json:"s"`
	SubtreeFeature string            `json:"f,omitempty"`
	Confidence     *jsonConfidence   `json:"conf,omitempty"`
}

type jsonConfidence struct {
	Entries []jsonConfidenceEntry `json:"entries"`
	Weight  int                   `json:"w"`
}

type jsonConfidenceEntry struct {
	Value      interface{} `json:"v"`
	Confidence float64     `json:"c"`
}

/*
NewNodeEncodeDecoder returns a NodeEncodeDecoder that uses the
given CriteriaEncodeDecoder to encode/decode the criteria of the
predicates of nodes. Features are used to resolve the feature nodes
are split on.
*/
func NewNodeEncodeDecoder(ced fjson.CriteriaEncodeDecoder, features []feature.Feature) NodeEncodeDecoder {
	return &nodeEncodeDecoder{ced, features}
}

func (ned *nodeEncodeDecoder) Encode(n *tree.Node) ([]byte, error) {
	jn := &node{
		ID:         n.ID,
		ParentID:   n.ParentID,
		SubtreeIDs: n.SubtreeIDs,
		Depth:      n.Depth,
		Support:    n.Support,
	}
	for _, c := range n.Predicate {
		data, err := ned.CriteriaEncodeDecoder.Encode(c)
		if err != nil {
			return nil, fmt.Errorf("encoding node %v: %v", n.ID, err)
		}
		jn.Predicate = append(jn.Predicate, json.RawMessage(data))
	}
	if n.Confidence != nil {
		jn.Confidence = &jsonConfidence{Weight: n.Confidence.Weight(), Entries: []jsonConfidenceEntry{}}
		for _, e := range n.Confidence.Entries() {
			jn.Confidence.Entries = append(jn.Confidence.Entries, jsonConfidenceEntry{e.Value, e.Confidence})
		}
	}
	if n.SubtreeFeature != nil {
		jn.SubtreeFeature = n.SubtreeFeature.Name()
	}
	return json.Marshal(jn)
}

func (ned *nodeEncodeDecoder) Decode(data []byte) (*tree.Node, error) {
	jn := &node{}
	err := json.Unmarshal(data, jn)
	if err != nil {
		return nil, err
	}
	n := &tree.Node{
		ID:         jn.ID,
		ParentID:   jn.ParentID,
		SubtreeIDs: jn.SubtreeIDs,
		Depth:      jn.Depth,
		Support:    jn.Support,
	}
	for _, raw := range jn.Predicate {
		c, err := ned.CriteriaEncodeDecoder.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("decoding node %v: %v", n.ID, err)
		}
		n.Predicate = append(n.Predicate, c)
	}
	if len(n.Predicate) > 0 {
		n.Criterion = n.Predicate[len(n.Predicate)-1]
	}
	if jn.Confidence != nil {
		entries := make([]tree.ConfidenceEntry, 0, len(jn.Confidence.Entries))
		for _, e := range jn.Confidence.Entries {
			entries = append(entries, tree.ConfidenceEntry{Value: e.Value, Confidence: e.Confidence})
		}
		n.Confidence = tree.NewConfidenceMap(entries, jn.Confidence.Weight)
	}
	if jn.SubtreeFeature != "" {
		n.SubtreeFeature = feature.Find(ned.features, jn.SubtreeFeature)
		if n.SubtreeFeature == nil {
			return nil, fmt.Errorf("decoding node %v: unknown feature %v", n.ID, jn.SubtreeFeature)
		}
	}
	return n, nil
}
