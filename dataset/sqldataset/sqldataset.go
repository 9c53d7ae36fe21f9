/*
Package sqldataset reads datasets from tables of SQL databases.

The table is expected to have a column per feature and a row per sample.
Database specifics are kept behind the Adapter interface, with
implementations for SQLite3 and PostgreSQL in subpackages.
*/
package sqldataset

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pbanos/orchard/dataset"
	"github.com/pbanos/orchard/dataset/csv"
	"github.com/pbanos/orchard/feature"
)

/*
Adapter is an interface providing the methods needed to read
datasets from and write tables to a database backend.
*/
type Adapter interface {
	// DB returns the database handle of the adapter.
	DB() *sql.DB
	// ColumnName takes a feature or table name and returns it
	// quoted as an identifier, or an error if it cannot be used.
	ColumnName(string) (string, error)
	// Placeholder returns the bind parameter for the i-th
	// (1-based) argument of a statement.
	Placeholder(i int) string
	// Close releases the database handle.
	Close() error
}

/*
ReadDataset takes a context, an Adapter, the name of a table, a slice of
features and a DatasetGenerator and returns a dataset with the rows of the
table or an error. When the features slice is empty every column of the table
becomes a feature and its kind is inferred as csv.ReadDataset does; otherwise
only the columns for the given features are read. NULL values are rejected.
*/
func ReadDataset(ctx context.Context, a Adapter, table string, features []feature.Feature, dg csv.DatasetGenerator) (dataset.Dataset, error) {
	tableName, err := a.ColumnName(table)
	if err != nil {
		return nil, err
	}
	columns := "*"
	if len(features) > 0 {
		quoted := make([]string, 0, len(features))
		for _, f := range features {
			c, err := a.ColumnName(f.Name())
			if err != nil {
				return nil, err
			}
			quoted = append(quoted, c)
		}
		columns = strings.Join(quoted, ", ")
	}
	rows, err := a.DB().QueryContext(ctx, fmt.Sprintf("SELECT %s FROM %s", columns, tableName))
	if err != nil {
		return nil, fmt.Errorf("querying table %s: %v", table, err)
	}
	defer rows.Close()
	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("listing columns of table %s: %v", table, err)
	}
	var records [][]string
	for rows.Next() {
		cells := make([]interface{}, len(header))
		dest := make([]interface{}, len(header))
		for i := range cells {
			dest[i] = &cells[i]
		}
		err = rows.Scan(dest...)
		if err != nil {
			return nil, fmt.Errorf("scanning row %d of table %s: %v", len(records)+1, table, err)
		}
		record := make([]string, len(header))
		for i, cell := range cells {
			record[i], err = cellString(cell)
			if err != nil {
				return nil, fmt.Errorf("row %d of table %s, column %s: %v", len(records)+1, table, header[i], err)
			}
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("reading table %s: %v", table, err)
	}
	return csv.FromRecords(header, records, features, dg)
}

func cellString(cell interface{}) (string, error) {
	switch v := cell.(type) {
	case nil:
		return "", fmt.Errorf("NULL value")
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return feature.Format(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case time.Time:
		return v.Format(time.RFC3339), nil
	}
	return fmt.Sprintf("%v", cell), nil
}
