package client

import "database/sql"

// Kind tells which half of a Result is populated.
type Kind int

const (
	// KindRows marks a result set.
	KindRows Kind = iota + 1
	// KindAffected marks an affected-row count.
	KindAffected
)

func (k Kind) String() string {
	switch k {
	case KindRows:
		return "rows"
	case KindAffected:
		return "affected"
	default:
		return "unknown"
	}
}

// Row maps column names to values. Text and blob columns come back as string.
type Row map[string]any

// Result is either the rows of a read or the affected-row count of a write,
// never both.
type Result struct {
	Kind Kind

	// Columns and Rows are set for KindRows, in driver order.
	Columns []string
	Rows    []Row

	// RowsAffected is set for KindAffected.
	RowsAffected int64
}

// IsRows reports whether the result holds rows.
func (r *Result) IsRows() bool {
	return r.Kind == KindRows
}

// scanRows materializes every row of rows.
func scanRows(rows *sql.Rows) (*Result, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &Result{Kind: KindRows, Columns: columns, Rows: []Row{}}

	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func affected(res sql.Result) (*Result, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	return &Result{Kind: KindAffected, RowsAffected: n}, nil
}
