// Package aggregate reduces DataSet rows into year-keyed numeric tables and
// merges historical and predicted tables into continuous series.
package aggregate

import "github.com/hazyhaar/climate-dashboard/pkg/table"

// Predicate reports whether a row takes part in an aggregation.
// A nil Predicate accepts every row.
type Predicate func(row []string) bool

// Equals matches rows whose cell at col is exactly want.
// An unresolved column (col < 0) matches nothing.
func Equals(col int, want string) Predicate {
	return func(row []string) bool {
		return col >= 0 && table.Field(row, col) == want
	}
}

// In matches rows whose cell at col is one of values.
func In(col int, values ...string) Predicate {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return func(row []string) bool {
		if col < 0 {
			return false
		}
		_, ok := set[table.Field(row, col)]
		return ok
	}
}

// All matches rows accepted by every predicate.
func All(preds ...Predicate) Predicate {
	return func(row []string) bool {
		for _, p := range preds {
			if p != nil && !p(row) {
				return false
			}
		}
		return true
	}
}

// Key extracts the grouping key of a row. Rows with an empty key are skipped.
type Key func(row []string) string

// Column groups rows by the cell at col.
func Column(col int) Key {
	return func(row []string) string {
		return table.Field(row, col)
	}
}

func accept(p Predicate, row []string) bool {
	return p == nil || p(row)
}
