package aggregate

import (
	"reflect"
	"testing"

	"github.com/hazyhaar/climate-dashboard/pkg/table"
)

const emissionsCSV = `ISO,Country,Data source,Sector,Gas,Unit,1990,1991
USA,United States,CAIT,Total excluding LUCF,All GHG,MtCO2e,100,110
USA,United States,CAIT,Energy,All GHG,MtCO2e,80,85
FRA,France,CAIT,Total excluding LUCF,All GHG,MtCO2e,"1,000",
FRA,France,CAIT,Total excluding LUCF,CO2,MtCO2e,900,950
`

func TestSumByYear(t *testing.T) {
	ds := table.ParseString(emissionsCSV)
	cols := table.Columns(ds.Header, "Sector", "Gas")
	years := table.YearColumns(ds.Header, 1990, 2020)

	got := SumByYear(ds, years, All(
		Equals(cols.Pos("Sector"), "Total excluding LUCF"),
		Equals(cols.Pos("Gas"), "All GHG"),
	))
	want := Table{"1990": 1100, "1991": 110}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SumByYear = %v, want %v", got, want)
	}
}

func TestSumByYear_MissingColumnMatchesNothing(t *testing.T) {
	ds := table.ParseString(emissionsCSV)
	years := table.YearColumns(ds.Header, 1990, 2020)

	got := SumByYear(ds, years, Equals(-1, "Total excluding LUCF"))
	if len(got) != 0 {
		t.Errorf("SumByYear with unresolved filter = %v, want empty", got)
	}
}

// The global sum must equal the sum of the per-entity sums.
func TestSumByEntityYear_AddsUp(t *testing.T) {
	ds := table.ParseString(emissionsCSV)
	years := table.YearColumns(ds.Header, 1990, 2020)
	iso := table.Columns(ds.Header, "ISO").Pos("ISO")

	global := SumByYear(ds, years, nil)
	per := SumByEntityYear(ds, Column(iso), years, nil)

	for year, total := range global {
		var sum float64
		for _, tab := range per {
			sum += tab[year]
		}
		if sum != total {
			t.Errorf("year %s: entity sum %v != global %v", year, sum, total)
		}
	}
	if per["USA"]["1990"] != 180 {
		t.Errorf("USA 1990 = %v, want 180", per["USA"]["1990"])
	}
}

func TestByEntityYear_LastRowWins(t *testing.T) {
	ds := table.ParseString(emissionsCSV)
	years := table.YearColumns(ds.Header, 1990, 2020)
	iso := table.Columns(ds.Header, "ISO").Pos("ISO")

	got := ByEntityYear(ds, Column(iso), years, nil)
	if got["USA"]["1990"] != 80 {
		t.Errorf("USA 1990 = %v, want 80 (last row)", got["USA"]["1990"])
	}
	if got["FRA"]["1991"] != 950 {
		t.Errorf("FRA 1991 = %v, want 950", got["FRA"]["1991"])
	}
}

func TestFirstByEntityYear(t *testing.T) {
	ds := table.ParseString(emissionsCSV)
	years := table.YearColumns(ds.Header, 1990, 2020)
	iso := table.Columns(ds.Header, "ISO").Pos("ISO")

	got := FirstByEntityYear(ds, Column(iso), years, nil)
	if got["USA"]["1990"] != 100 || got["FRA"]["1990"] != 1000 {
		t.Errorf("first rows = USA %v FRA %v, want 100 and 1000", got["USA"]["1990"], got["FRA"]["1990"])
	}
}

func TestIn(t *testing.T) {
	p := In(0, "a", "b")
	if !p([]string{"a"}) || !p([]string{"b"}) || p([]string{"c"}) {
		t.Error("In matched the wrong rows")
	}
	if In(-1, "a")([]string{"a"}) {
		t.Error("In on unresolved column should not match")
	}
}

func TestCollect(t *testing.T) {
	got := Collect([]Point{
		{Entity: "Kenya", Year: "2021", Value: 1},
		{Entity: "Kenya", Year: "2021", Value: 2},
		{Entity: "", Year: "2021", Value: 9},
		{Entity: "Peru", Year: "2022", Value: 3},
	})
	want := map[string]Table{
		"Kenya": {"2021": 2},
		"Peru":  {"2022": 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Collect = %v, want %v", got, want)
	}
}

func TestMerge(t *testing.T) {
	hist := Table{"1990": 100, "2020": 200, "2021": 999}
	pred := Table{"2020": 888, "2025": 250}

	got := Merge(hist, pred, 2020)
	want := Table{"1990": 100, "2020": 200, "2025": 250}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge = %v, want %v", got, want)
	}

	dense := got.Dense(1990, 2030)
	if len(dense) != 41 {
		t.Fatalf("Dense len = %d, want 41", len(dense))
	}
	for _, tt := range []struct {
		year string
		want float64
	}{{"1990", 100}, {"2020", 200}, {"2025", 250}, {"2030", 0}, {"2005", 0}} {
		p, ok := dense.At(tt.year)
		if !ok || p.Value != tt.want {
			t.Errorf("dense[%s] = %v (ok=%v), want %v", tt.year, p.Value, ok, tt.want)
		}
	}
	if _, ok := dense.At("1989"); ok {
		t.Error("1989 should not be in the dense range")
	}
}

func TestMergeAll(t *testing.T) {
	hist := map[string]Table{"USA": {"2020": 200}}
	pred := map[string]Table{"USA": {"2025": 250}, "Chad": {"2030": 5}}

	got := MergeAll(hist, pred, 2020)
	want := map[string]Table{
		"USA":  {"2020": 200, "2025": 250},
		"Chad": {"2030": 5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeAll = %v, want %v", got, want)
	}
}

func TestSeries(t *testing.T) {
	s := Table{"2000": 3, "1999": 0, "1960": 1.005}.Series()

	wantYears := []string{"1960", "1999", "2000"}
	for i, p := range s {
		if p.Year != wantYears[i] {
			t.Errorf("s[%d].Year = %s, want %s", i, p.Year, wantYears[i])
		}
	}
	if nz := s.NonZero(); len(nz) != 2 {
		t.Errorf("NonZero len = %d, want 2", len(nz))
	}
	last, ok := s.Last()
	if !ok || last.Year != "2000" {
		t.Errorf("Last = %v, %v", last, ok)
	}
	if _, ok := Series(nil).Last(); ok {
		t.Error("Last on empty series should report false")
	}
}

func TestSortYears(t *testing.T) {
	years := []string{"2010", "x", "990", "1990"}
	SortYears(years)
	want := []string{"990", "1990", "2010", "x"}
	if !reflect.DeepEqual(years, want) {
		t.Errorf("SortYears = %q, want %q", years, want)
	}
}

func TestRound(t *testing.T) {
	for _, tt := range []struct {
		v      float64
		places int
		want   float64
	}{
		{1.234, 2, 1.23},
		{1.235, 1, 1.2},
		{2.5, 0, 3},
		{-2.5, 0, -3},
		{66.66666, 1, 66.7},
	} {
		if got := Round(tt.v, tt.places); got != tt.want {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.v, tt.places, got, tt.want)
		}
	}
}

func TestYearRange(t *testing.T) {
	if got := YearRange(2020, 2019); got != nil {
		t.Errorf("inverted range = %q, want nil", got)
	}
	if got := YearRange(1990, 1992); !reflect.DeepEqual(got, []string{"1990", "1991", "1992"}) {
		t.Errorf("YearRange = %q", got)
	}
}
