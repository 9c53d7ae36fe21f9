package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weatherCSV = `Weather,Play
Sun,Yes
Sun,Yes
Rain,No
Rain,No
`

const weatherMetadata = `
features:
  Weather: [Sun, Rain]
  Play: ["Yes", "No"]
order: [Weather, Play]
`

func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) string {
	var out bytes.Buffer
	cmd := cliParser()
	cmd.SetOut(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestMineRejectsConsequentWithoutAntecedent(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "weather.csv", weatherCSV)
	cmd := cliParser()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"mine", "-i", input, "--consequent", "Play=No", "--log-level", "error"})
	assert.EqualError(t, cmd.Execute(), "consequent filter requires an antecedent filter")
}

func TestMineTreeToCSV(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "weather.csv", weatherCSV)
	output := filepath.Join(dir, "rules.csv")
	run(t, "mine", "-i", input, "-o", output, "--targets", "Play")
	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, `antecedents,consequents,support,confidence
Weather=Rain,Play=No,0.5,1
Weather=Sun,Play=Yes,0.5,1
`, string(content))
}

func TestMineItemsetsToJSON(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "weather.csv", weatherCSV)
	output := filepath.Join(dir, "rules.json")
	run(t, "mine", "-i", input, "-o", output, "--method", "fpgrowth", "--min-support", "0.5", "--min-threshold", "1", "--metric", "lift", "--antecedent", "Weather=Sun")
	content, err := os.ReadFile(output)
	require.NoError(t, err)
	var rules []struct {
		Antecedents []string           `json:"antecedents"`
		Consequents []string           `json:"consequents"`
		Metrics     map[string]float64 `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(content, &rules))
	require.Len(t, rules, 1)
	assert.Equal(t, []string{"Play=Yes"}, rules[0].Consequents)
	assert.Equal(t, 2.0, rules[0].Metrics["lift"])
}

func TestMineReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "weather.csv", weatherCSV)
	config := writeFile(t, dir, "orchard.yml", "min-support: 0.9\ntargets: [Play]\n")
	output := filepath.Join(dir, "rules.csv")
	run(t, "mine", "--config", config, "-i", input, "-o", output)
	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "antecedents,consequents,support,confidence\n", string(content))
}

func TestTreeShowsMinedTree(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "weather.csv", weatherCSV)
	metadata := writeFile(t, dir, "weather.yml", weatherMetadata)
	trees := filepath.Join(dir, "trees")
	run(t, "mine", "-i", input, "-m", metadata, "-o", filepath.Join(dir, "rules.txt"), "--tree-output", trees)
	_, err := os.Stat(filepath.Join(trees, "Weather.json"))
	require.NoError(t, err)

	out := run(t, "tree", "-t", filepath.Join(trees, "Play.json"), "-m", metadata)
	assert.Contains(t, out, "Weather=Rain support=0.5 [No:1]")
	assert.Contains(t, out, "Weather=Sun support=0.5 [Yes:1]")
}

func TestDatasetCopiesToCSV(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "weather.csv", weatherCSV)
	metadata := writeFile(t, dir, "weather.yml", weatherMetadata)
	output := filepath.Join(dir, "copy.csv")
	run(t, "dataset", "-i", input, "-m", metadata, "-o", output)
	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, weatherCSV, string(content))
}

func TestVersion(t *testing.T) {
	out := run(t, "version")
	assert.True(t, strings.HasPrefix(out, "orchard"), out)
}
