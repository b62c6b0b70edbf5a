package table

import (
	"sort"
	"strconv"
	"strings"
)

// ColumnIndex maps a logical column name to its position in a row.
// Year columns are keyed by their verbatim header text.
type ColumnIndex map[string]int

// Columns resolves names against header. Names missing from the header are
// simply absent from the result.
func Columns(header []string, names ...string) ColumnIndex {
	idx := make(ColumnIndex, len(names))
	for _, name := range names {
		for i, h := range header {
			if h == name {
				idx[name] = i
				break
			}
		}
	}
	return idx
}

// YearColumns resolves every header that parses as an integer in [from, to].
// The match is strict: "1990.0" or "1990a" are not year columns.
func YearColumns(header []string, from, to int) ColumnIndex {
	idx := make(ColumnIndex)
	for i, h := range header {
		n, err := strconv.Atoi(strings.TrimSpace(h))
		if err != nil || n < from || n > to {
			continue
		}
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	return idx
}

// Pos returns the position of name, or -1 when it was not resolved.
func (c ColumnIndex) Pos(name string) int {
	if i, ok := c[name]; ok {
		return i
	}
	return -1
}

// Names returns the resolved names ordered by column position.
func (c ColumnIndex) Names() []string {
	names := make([]string, 0, len(c))
	for n := range c {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return c[names[i]] < c[names[j]] })
	return names
}
