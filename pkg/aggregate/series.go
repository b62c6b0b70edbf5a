package aggregate

import (
	"math"
	"sort"
	"strconv"
)

// YearValue is one point of a time series.
type YearValue struct {
	Year  string  `json:"year"`
	Value float64 `json:"value"`
}

// Series is a sequence of points ordered by year, one point per year.
type Series []YearValue

// YearRange returns the labels from..to inclusive.
func YearRange(from, to int) []string {
	if to < from {
		return nil
	}
	years := make([]string, 0, to-from+1)
	for y := from; y <= to; y++ {
		years = append(years, strconv.Itoa(y))
	}
	return years
}

// SortYears orders year labels by their integer value. Labels that do not
// parse sort after the numeric ones, lexically.
func SortYears(years []string) {
	sort.SliceStable(years, func(i, j int) bool {
		a, aerr := strconv.Atoi(years[i])
		b, berr := strconv.Atoi(years[j])
		switch {
		case aerr == nil && berr == nil:
			return a < b
		case aerr == nil:
			return true
		case berr == nil:
			return false
		default:
			return years[i] < years[j]
		}
	})
}

// Years returns the keys of t ordered by integer value.
func (t Table) Years() []string {
	years := make([]string, 0, len(t))
	for y := range t {
		years = append(years, y)
	}
	SortYears(years)
	return years
}

// Series emits the years present in t, ascending.
func (t Table) Series() Series {
	years := t.Years()
	s := make(Series, len(years))
	for i, y := range years {
		s[i] = YearValue{Year: y, Value: t[y]}
	}
	return s
}

// Dense emits one point per year in [from, to]; absent years are 0.
func (t Table) Dense(from, to int) Series {
	years := YearRange(from, to)
	s := make(Series, len(years))
	for i, y := range years {
		s[i] = YearValue{Year: y, Value: t[y]}
	}
	return s
}

// At returns the point for year.
func (s Series) At(year string) (YearValue, bool) {
	for _, p := range s {
		if p.Year == year {
			return p, true
		}
	}
	return YearValue{}, false
}

// Last returns the latest point.
func (s Series) Last() (YearValue, bool) {
	if len(s) == 0 {
		return YearValue{}, false
	}
	return s[len(s)-1], true
}

// NonZero drops the points whose value is exactly 0.
func (s Series) NonZero() Series {
	out := make(Series, 0, len(s))
	for _, p := range s {
		if p.Value != 0 {
			out = append(out, p)
		}
	}
	return out
}

// Round rounds every value to places decimals.
func (s Series) Round(places int) Series {
	out := make(Series, len(s))
	for i, p := range s {
		out[i] = YearValue{Year: p.Year, Value: Round(p.Value, places)}
	}
	return out
}

// Round rounds v half away from zero to places decimals.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
