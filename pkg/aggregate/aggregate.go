package aggregate

import (
	"github.com/hazyhaar/climate-dashboard/pkg/table"
)

// Table accumulates one number per year label.
type Table map[string]float64

// SumByYear sums, for every resolved year column, the coerced cells of all
// rows accepted by pred. Years appear in the result once any row matched.
func SumByYear(ds *table.DataSet, years table.ColumnIndex, pred Predicate) Table {
	t := make(Table, len(years))
	for _, row := range ds.Rows {
		if !accept(pred, row) {
			continue
		}
		for year, idx := range years {
			t[year] += table.Coerce(table.Field(row, idx))
		}
	}
	return t
}

// SumByEntityYear is SumByYear grouped by key: one table per entity, rows
// sharing an entity and year are summed.
func SumByEntityYear(ds *table.DataSet, key Key, years table.ColumnIndex, pred Predicate) map[string]Table {
	return group(ds, key, years, pred, reduceSum)
}

// ByEntityYear holds one value per (entity, year): a later row for the same
// entity overwrites the earlier one.
func ByEntityYear(ds *table.DataSet, key Key, years table.ColumnIndex, pred Predicate) map[string]Table {
	return group(ds, key, years, pred, reduceLast)
}

// FirstByEntityYear keeps the first row seen for each entity and ignores
// later duplicates.
func FirstByEntityYear(ds *table.DataSet, key Key, years table.ColumnIndex, pred Predicate) map[string]Table {
	return group(ds, key, years, pred, reduceFirst)
}

type reduce int

const (
	reduceSum reduce = iota
	reduceLast
	reduceFirst
)

func group(ds *table.DataSet, key Key, years table.ColumnIndex, pred Predicate, mode reduce) map[string]Table {
	out := make(map[string]Table)
	for _, row := range ds.Rows {
		if !accept(pred, row) {
			continue
		}
		k := key(row)
		if k == "" {
			continue
		}
		t, seen := out[k]
		if seen && mode == reduceFirst {
			continue
		}
		if !seen {
			t = make(Table, len(years))
			out[k] = t
		}
		for year, idx := range years {
			v := table.Coerce(table.Field(row, idx))
			if mode == reduceSum {
				t[year] += v
			} else {
				t[year] = v
			}
		}
	}
	return out
}

// Point is one observation of a long-format table (one row per entity-year).
type Point struct {
	Entity string
	Year   string
	Value  float64
}

// Collect groups long-format points by entity, last point wins on a
// duplicate (entity, year). Points with an empty entity or year are skipped.
func Collect(points []Point) map[string]Table {
	out := make(map[string]Table)
	for _, p := range points {
		if p.Entity == "" || p.Year == "" {
			continue
		}
		t, ok := out[p.Entity]
		if !ok {
			t = make(Table)
			out[p.Entity] = t
		}
		t[p.Year] = p.Value
	}
	return out
}
