/*
Package report turns rule tables into sorted, rounded reports and writes
them as text, CSV, JSON, XLSX or SQL tables.
*/
package report

import (
	"math"
	"sort"
	"strconv"

	"github.com/pbanos/orchard/rule"
)

// Names of the columns holding the antecedent and consequent of rules.
const (
	AntecedentsColumn = "antecedents"
	ConsequentsColumn = "consequents"
)

// DefaultDecimals is the number of decimals values are rounded to.
const DefaultDecimals = 2

/*
Options configures a report: the metric rules are ranked by after support,
the decimals values are rounded to and whether every metric is reported or
only support and the chosen one.
*/
type Options struct {
	Metric   string
	Decimals int
	Verbose  bool
}

/*
Record is a rule of a report: its antecedent and consequent rendered as
"feature=value" clauses joined by " & ", and the rounded values of the
metric columns.
*/
type Record struct {
	Antecedent string
	Consequent string
	Values     []float64
}

/*
Report holds the rows of a rule table ready to be written. Metrics names the
metric columns, after the antecedents and consequents ones.
*/
type Report struct {
	Metrics []string
	Records []Record
}

/*
New takes a rule table and options and returns a report on the rules sorted
by support and then by the metric of the options, both descending, with ties
ordered by antecedent and consequent. It returns an error if the metric is
unknown.
*/
func New(t rule.Table, opts Options) (*Report, error) {
	if opts.Metric == "" {
		opts.Metric = rule.Confidence
	}
	if err := rule.ValidMetric(opts.Metric); err != nil {
		return nil, err
	}
	sorted, err := Sort(t, opts.Metric)
	if err != nil {
		return nil, err
	}
	metrics := []string{rule.Support}
	if opts.Verbose {
		metrics = append(metrics, rule.Metrics...)
	} else if opts.Metric != rule.Support {
		metrics = append(metrics, opts.Metric)
	}
	r := &Report{Metrics: metrics, Records: make([]Record, 0, len(sorted))}
	for _, ru := range sorted {
		rec := Record{
			Antecedent: ru.Antecedent.String(),
			Consequent: ru.Consequent.String(),
			Values:     make([]float64, 0, len(metrics)),
		}
		for _, m := range metrics {
			v, err := ru.Metric(m)
			if err != nil {
				return nil, err
			}
			rec.Values = append(rec.Values, Round(v, opts.Decimals))
		}
		r.Records = append(r.Records, rec)
	}
	return r, nil
}

// Columns returns the names of every column of the report.
func (r *Report) Columns() []string {
	return append([]string{AntecedentsColumn, ConsequentsColumn}, r.Metrics...)
}

/*
Sort returns a copy of the table sorted by support and then by the given
metric, both descending. Rules with equal values are ordered by antecedent
and then consequent so the result does not depend on the input order.
*/
func Sort(t rule.Table, metric string) (rule.Table, error) {
	values := make(map[string]float64, len(t))
	for _, r := range t {
		v, err := r.Metric(metric)
		if err != nil {
			return nil, err
		}
		values[r.Key()] = v
	}
	sorted := append(rule.Table{}, t...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Support != b.Support {
			return a.Support > b.Support
		}
		if va, vb := values[a.Key()], values[b.Key()]; va != vb {
			return va > vb
		}
		if as, bs := a.Antecedent.String(), b.Antecedent.String(); as != bs {
			return as < bs
		}
		return a.Consequent.String() < b.Consequent.String()
	})
	return sorted, nil
}

/*
Round returns v rounded to the given number of decimals. Negative decimals
leave v untouched, as do infinities.
*/
func Round(v float64, decimals int) float64 {
	if decimals < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// FormatValue renders a metric value for textual outputs.
func FormatValue(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (rec Record) strings() []string {
	row := make([]string, 0, len(rec.Values)+2)
	row = append(row, rec.Antecedent, rec.Consequent)
	for _, v := range rec.Values {
		row = append(row, FormatValue(v))
	}
	return row
}
