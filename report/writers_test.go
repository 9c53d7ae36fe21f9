package report

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pbanos/orchard/dataset/sqldataset/sqlite3adapter"
	"github.com/pbanos/orchard/rule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleReport(t *testing.T, verbose bool) *Report {
	table := rule.Table{
		{Antecedent: rule.NewItemSet("weather=Sun", "wind=2"), Consequent: rule.NewItemSet("play=Yes"), Support: 0.5, Confidence: 1, Lift: 2, ConsequentSupport: 0.5},
		{Antecedent: rule.NewItemSet("weather=Rain"), Consequent: rule.NewItemSet("play=No"), Support: 0.25, Confidence: 0.75, Lift: 1.5, ConsequentSupport: 0.5},
	}
	r, err := New(table, Options{Metric: rule.Confidence, Decimals: DefaultDecimals, Verbose: verbose})
	require.NoError(t, err)
	return r
}

func TestWriteCSV(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, WriteCSV(&b, sampleReport(t, false)))
	assert.Equal(t, `antecedents,consequents,support,confidence
weather=Sun & wind=2,play=Yes,0.5,1
weather=Rain,play=No,0.25,0.75
`, b.String())

	b.Reset()
	require.NoError(t, WriteCSV(&b, sampleReport(t, true)))
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "antecedents,consequents,support,confidence,lift,leverage,conviction,zhangs_metric", lines[0])
	assert.Contains(t, lines[1], ",inf,")
}

func TestWriteText(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, WriteText(&b, sampleReport(t, false)))
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"antecedents", "consequents", "support", "confidence"}, strings.Fields(lines[0]))
	assert.Contains(t, lines[1], "weather=Sun & wind=2")
	assert.Equal(t, []string{"weather=Rain", "play=No", "0.25", "0.75"}, strings.Fields(lines[2]))
}

func TestWriteJSON(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, WriteJSON(&b, sampleReport(t, true)))
	var rules []struct {
		Antecedents []string           `json:"antecedents"`
		Consequents []string           `json:"consequents"`
		Metrics     map[string]float64 `json:"metrics"`
		Infinite    []string           `json:"infinite"`
	}
	require.NoError(t, json.Unmarshal(b.Bytes(), &rules))
	require.Len(t, rules, 2)
	assert.Equal(t, []string{"weather=Sun", "wind=2"}, rules[0].Antecedents)
	assert.Equal(t, []string{"play=Yes"}, rules[0].Consequents)
	assert.Equal(t, 0.5, rules[0].Metrics[rule.Support])
	assert.Equal(t, []string{rule.Conviction}, rules[0].Infinite)
	assert.NotContains(t, rules[0].Metrics, rule.Conviction)
	assert.Empty(t, rules[1].Infinite)
	assert.Equal(t, 2.0, rules[1].Metrics[rule.Conviction])
}

func TestWriteXLSX(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, WriteXLSX(&b, sampleReport(t, true), ""))
	f, err := excelize.OpenReader(&b)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("rules")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "antecedents", rows[0][0])
	assert.Equal(t, "weather=Sun & wind=2", rows[1][0])
	assert.Equal(t, "inf", rows[1][6])
	assert.Equal(t, "0.25", rows[2][2])
}

func TestWriteSQL(t *testing.T) {
	ctx := context.Background()
	a, err := sqlite3adapter.New(filepath.Join(t.TempDir(), "rules.db"), 1)
	require.NoError(t, err)
	defer a.Close()

	r := sampleReport(t, true)
	require.NoError(t, WriteSQL(ctx, a, "rules", r))
	require.NoError(t, WriteSQL(ctx, a, "rules", r), "the table is reused")

	var count int
	require.NoError(t, a.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM "rules"`).Scan(&count))
	assert.Equal(t, 4, count)

	var conviction sql.NullFloat64
	var support float64
	err = a.DB().QueryRowContext(ctx, `SELECT "support", "conviction" FROM "rules" WHERE "antecedents" = ?`, "weather=Sun & wind=2").Scan(&support, &conviction)
	require.NoError(t, err)
	assert.Equal(t, 0.5, support)
	assert.False(t, conviction.Valid)

	assert.Error(t, WriteSQL(ctx, a, `bad"table`, r))
}
