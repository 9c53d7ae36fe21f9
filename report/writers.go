package report

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/pbanos/orchard/dataset/sqldataset"
	"github.com/xuri/excelize/v2"
)

// WriteText writes the report as a table with aligned columns.
func WriteText(w io.Writer, r *Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	_, err := fmt.Fprintln(tw, strings.Join(r.Columns(), "\t")+"\t")
	if err != nil {
		return err
	}
	for _, rec := range r.Records {
		_, err = fmt.Fprintln(tw, strings.Join(rec.strings(), "\t")+"\t")
		if err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteCSV writes the report as CSV, with a header row.
func WriteCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)
	err := cw.Write(r.Columns())
	if err != nil {
		return err
	}
	for _, rec := range r.Records {
		err = cw.Write(rec.strings())
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonRule struct {
	Antecedents []string           `json:"antecedents"`
	Consequents []string           `json:"consequents"`
	Metrics     map[string]float64 `json:"metrics"`
	Infinite    []string           `json:"infinite,omitempty"`
}

/*
WriteJSON writes the report as a JSON array with an object per rule. Clauses
are listed separately and metrics are keyed by name. JSON has no infinite
numbers, so infinite metrics are left out of the metrics object and named
on an infinite list instead.
*/
func WriteJSON(w io.Writer, r *Report) error {
	rules := make([]jsonRule, 0, len(r.Records))
	for _, rec := range r.Records {
		jr := jsonRule{
			Antecedents: splitClauses(rec.Antecedent),
			Consequents: splitClauses(rec.Consequent),
			Metrics:     make(map[string]float64, len(r.Metrics)),
		}
		for i, m := range r.Metrics {
			if math.IsInf(rec.Values[i], 0) {
				jr.Infinite = append(jr.Infinite, m)
				continue
			}
			jr.Metrics[m] = rec.Values[i]
		}
		rules = append(rules, jr)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rules)
}

/*
WriteXLSX writes the report as an Excel workbook with a single sheet named
after the given name ("rules" if empty).
*/
func WriteXLSX(w io.Writer, r *Report, sheet string) error {
	if sheet == "" {
		sheet = "rules"
	}
	f := excelize.NewFile()
	defer f.Close()
	first := f.GetSheetName(0)
	if err := f.SetSheetName(first, sheet); err != nil {
		return err
	}
	header := make([]interface{}, 0, len(r.Columns()))
	for _, c := range r.Columns() {
		header = append(header, c)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, rec := range r.Records {
		row := make([]interface{}, 0, len(rec.Values)+2)
		row = append(row, rec.Antecedent, rec.Consequent)
		for _, v := range rec.Values {
			if math.IsInf(v, 0) {
				row = append(row, FormatValue(v))
			} else {
				row = append(row, v)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err = f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}

/*
WriteSQL takes a context, an adapter, a table name and a report and inserts
a row per rule on the table, creating it if needed. Infinite metric values
are stored as NULL.
*/
func WriteSQL(ctx context.Context, a sqldataset.Adapter, table string, r *Report) error {
	tableName, err := a.ColumnName(table)
	if err != nil {
		return err
	}
	columns := r.Columns()
	quoted := make([]string, 0, len(columns))
	definitions := make([]string, 0, len(columns))
	placeholders := make([]string, 0, len(columns))
	for i, c := range columns {
		q, err := a.ColumnName(c)
		if err != nil {
			return err
		}
		quoted = append(quoted, q)
		kind := "DOUBLE PRECISION"
		if i < 2 {
			kind = "TEXT"
		}
		definitions = append(definitions, fmt.Sprintf("%s %s", q, kind))
		placeholders = append(placeholders, a.Placeholder(i+1))
	}
	db := a.DB()
	_, err = db.ExecContext(ctx, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", tableName, strings.Join(definitions, ", ")))
	if err != nil {
		return fmt.Errorf("creating table %s: %v", table, err)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", tableName, strings.Join(quoted, ", "), strings.Join(placeholders, ", ")))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("preparing insert on %s: %v", table, err)
	}
	defer stmt.Close()
	for i, rec := range r.Records {
		args := make([]interface{}, 0, len(columns))
		args = append(args, rec.Antecedent, rec.Consequent)
		for _, v := range rec.Values {
			if math.IsInf(v, 0) {
				args = append(args, nil)
			} else {
				args = append(args, v)
			}
		}
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting rule %d on %s: %v", i+1, table, err)
		}
	}
	return tx.Commit()
}

func splitClauses(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, " & ")
}
