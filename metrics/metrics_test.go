package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := New()
	c.NodeExpanded("play", 3)
	c.NodeExpanded("play", 0)
	c.NodeExpanded("weather", 2)
	c.TreeGrown("play", 4, 20*time.Millisecond)
	c.RulesExtracted("play", 5)
	c.TargetFailed("weather")

	assert.Equal(t, 1.0, testutil.ToFloat64(c.treesGrown))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.nodesExpanded.WithLabelValues("play")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.nodesCreated.WithLabelValues("play")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.nodesCreated.WithLabelValues("weather")))
	assert.Equal(t, 5.0, testutil.ToFloat64(c.rulesExtracted.WithLabelValues("play")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.targetFailures.WithLabelValues("weather")))

	families, err := c.Registry().Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "orchard_tree_growth_seconds")
	assert.Contains(t, names, "orchard_trees_grown_total")
}

func TestWriteToTextfile(t *testing.T) {
	c := New()
	c.RulesExtracted("play", 2)
	path := filepath.Join(t.TempDir(), "orchard.prom")
	require.NoError(t, c.WriteToTextfile(path))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(content), `orchard_rules_extracted_total{target="play"} 2`))
}
