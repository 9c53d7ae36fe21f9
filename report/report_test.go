package report

import (
	"math"
	"testing"

	"github.com/pbanos/orchard/rule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() rule.Table {
	return rule.Table{
		{Antecedent: rule.NewItemSet("a=2"), Consequent: rule.NewItemSet("c=2"), Support: 0.25, Confidence: 1, Lift: 4, ConsequentSupport: 0.25},
		{Antecedent: rule.NewItemSet("b=1"), Consequent: rule.NewItemSet("c=1"), Support: 0.5, Confidence: 0.8, Lift: 1.6, ConsequentSupport: 0.5},
		{Antecedent: rule.NewItemSet("a=1"), Consequent: rule.NewItemSet("c=1"), Support: 0.5, Confidence: 1, Lift: 2, ConsequentSupport: 0.5},
		{Antecedent: rule.NewItemSet("a=1"), Consequent: rule.NewItemSet("b=1"), Support: 0.5, Confidence: 1, Lift: 1.5, ConsequentSupport: 2.0 / 3},
	}
}

func antecedentsAndConsequents(t rule.Table) []string {
	var result []string
	for _, r := range t {
		result = append(result, r.Antecedent.String()+">"+r.Consequent.String())
	}
	return result
}

func TestSort(t *testing.T) {
	sorted, err := Sort(sampleTable(), rule.Confidence)
	require.NoError(t, err)
	assert.Equal(t, []string{"a=1>b=1", "a=1>c=1", "b=1>c=1", "a=2>c=2"}, antecedentsAndConsequents(sorted))

	sorted, err = Sort(sampleTable(), rule.Lift)
	require.NoError(t, err)
	assert.Equal(t, []string{"a=1>c=1", "b=1>c=1", "a=1>b=1", "a=2>c=2"}, antecedentsAndConsequents(sorted))

	_, err = Sort(sampleTable(), "interest")
	assert.Error(t, err)
}

func TestSortLeavesInputUntouched(t *testing.T) {
	table := sampleTable()
	_, err := Sort(table, rule.Confidence)
	require.NoError(t, err)
	assert.Equal(t, sampleTable(), table)
}

func TestNew(t *testing.T) {
	r, err := New(sampleTable(), Options{Metric: rule.Lift, Decimals: DefaultDecimals})
	require.NoError(t, err)
	assert.Equal(t, []string{AntecedentsColumn, ConsequentsColumn, rule.Support, rule.Lift}, r.Columns())
	require.Len(t, r.Records, 4)
	assert.Equal(t, Record{"a=1", "c=1", []float64{0.5, 2}}, r.Records[0])

	r, err = New(sampleTable(), Options{Decimals: DefaultDecimals})
	require.NoError(t, err)
	assert.Equal(t, []string{rule.Support, rule.Confidence}, r.Metrics)

	r, err = New(sampleTable(), Options{Metric: rule.Support, Decimals: DefaultDecimals})
	require.NoError(t, err)
	assert.Equal(t, []string{rule.Support}, r.Metrics)

	r, err = New(sampleTable(), Options{Metric: rule.Confidence, Decimals: DefaultDecimals, Verbose: true})
	require.NoError(t, err)
	assert.Equal(t, append([]string{rule.Support}, rule.Metrics...), r.Metrics)
	assert.Equal(t, "b=1", r.Records[0].Consequent)
	assert.Equal(t, 0.17, r.Records[0].Values[3], "leverage is rounded")
	assert.True(t, math.IsInf(r.Records[0].Values[4], 1), "certain rules have infinite conviction")

	_, err = New(sampleTable(), Options{Metric: "interest"})
	assert.Error(t, err)

	r, err = New(rule.Table{}, Options{})
	require.NoError(t, err)
	assert.Empty(t, r.Records)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.67, Round(2.0/3, 2))
	assert.Equal(t, 1.0, Round(0.6, 0))
	assert.Equal(t, 0.123, Round(0.1234, 3))
	assert.Equal(t, 2.0/3, Round(2.0/3, -1))
	assert.True(t, math.IsInf(Round(math.Inf(1), 2), 1))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "0.5", FormatValue(0.5))
	assert.Equal(t, "2", FormatValue(2))
	assert.Equal(t, "inf", FormatValue(math.Inf(1)))
	assert.Equal(t, "-inf", FormatValue(math.Inf(-1)))
}
