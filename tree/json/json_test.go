package json

import (
	"bytes"
	"context"
	"testing"

	"github.com/pbanos/orchard/feature"
	fjson "github.com/pbanos/orchard/feature/json"
	"github.com/pbanos/orchard/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadJSONTree(t *testing.T) {
	ctx := context.Background()
	weather := feature.NewDiscreteFeature("weather", feature.Text, []interface{}{"Sun", "Rain"})
	wind := feature.NewNumericFeature("wind")
	play := feature.NewTextFeature("play")
	features := []feature.Feature{weather, wind, play}
	ned := NewNodeEncodeDecoder(fjson.NewCriteriaEncodeDecoder(features), features)

	ns := tree.NewMemoryNodeStore()
	root := &tree.Node{Support: 1, Confidence: tree.NewConfidenceMap(nil, 4), SubtreeFeature: weather}
	require.NoError(t, ns.Create(ctx, root))
	sun := feature.NewDiscreteCriterion(weather, "Sun")
	child := &tree.Node{
		ParentID:       root.ID,
		Criterion:      sun,
		Predicate:      feature.Predicate{}.And(sun),
		Depth:          1,
		Support:        0.5,
		Confidence:     tree.NewConfidenceMap([]tree.ConfidenceEntry{{Value: "Yes", Confidence: 1}}, 2),
		SubtreeFeature: wind,
	}
	require.NoError(t, ns.Create(ctx, child))
	calm := feature.NewDiscreteCriterion(wind, 2.0)
	grandchild := &tree.Node{
		ParentID:   child.ID,
		Criterion:  calm,
		Predicate:  child.Predicate.And(calm),
		Depth:      2,
		Support:    0.25,
		Confidence: tree.NewConfidenceMap([]tree.ConfidenceEntry{{Value: "Yes", Confidence: 1}}, 1),
	}
	require.NoError(t, ns.Create(ctx, grandchild))
	child.SubtreeIDs = []string{grandchild.ID}
	root.SubtreeIDs = []string{child.ID}
	original := tree.New(root.ID, ns, play, map[string]float64{"Yes": 0.75, "No": 0.25})

	var b bytes.Buffer
	require.NoError(t, WriteJSONTree(ctx, original, ned, &b))

	read := &tree.Tree{NodeStore: tree.NewMemoryNodeStore()}
	require.NoError(t, ReadJSONTree(ctx, read, ned, features, &b))
	assert.Equal(t, original.RootID, read.RootID)
	assert.Equal(t, "play", read.Target.Name())
	assert.Equal(t, original.Marginals, read.Marginals)
	assert.Equal(t, original.String(), read.String())

	n, err := read.NodeStore.Get(ctx, grandchild.ID)
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, []string{"weather=Sun", "wind=2"}, n.Predicate.Clauses())
	assert.Equal(t, "wind=2", n.Criterion.String())
	assert.Equal(t, 2.0, n.Criterion.Value())
	assert.Equal(t, 2, n.Depth)
	assert.Equal(t, 1, n.Confidence.Weight())

	n, err = read.NodeStore.Get(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, "wind", n.SubtreeFeature.Name())
}

func TestReadJSONTreeErrors(t *testing.T) {
	ctx := context.Background()
	play := feature.NewTextFeature("play")
	features := []feature.Feature{play}
	ned := NewNodeEncodeDecoder(fjson.NewCriteriaEncodeDecoder(features), features)
	for _, data := range []string{
		`{"rootID":"1","target":"weather","nodes":[]}`,
		`{"rootID":"","target":"play","nodes":[]}`,
		`{"rootID":"1","target":"play","nodes":[{"id":"1","f":"weather"}]}`,
		`{"rootID":"1","target":"play","nodes":[{"id":"1","p":[{"f":"weather","v":"Sun"}]}]}`,
		`{"rootID":`,
	} {
		read := &tree.Tree{NodeStore: tree.NewMemoryNodeStore()}
		err := ReadJSONTree(ctx, read, ned, features, bytes.NewBufferString(data))
		assert.Error(t, err, data)
	}
}
