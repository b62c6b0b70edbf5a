package table

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParseString(t *testing.T) {
	ds := ParseString("\uFEFFCountry Name,Country Code,1990\r\nFrance,FRA,\"1,000\"\r\n\r\nGermany,DEU\n")

	wantHeader := []string{"Country Name", "Country Code", "1990"}
	if !reflect.DeepEqual(ds.Header, wantHeader) {
		t.Errorf("Header = %q, want %q", ds.Header, wantHeader)
	}
	if ds.Len() != 2 {
		t.Fatalf("Len = %d, want 2", ds.Len())
	}
	if got := ds.Rows[0][2]; got != "1,000" {
		t.Errorf("Rows[0][2] = %q, want 1,000", got)
	}
	if got := Field(ds.Rows[1], 2); got != "" {
		t.Errorf("Field on short row = %q, want empty", got)
	}
}

func TestParseString_Empty(t *testing.T) {
	ds := ParseString("\n \r\n")
	if ds.Header != nil || ds.Len() != 0 {
		t.Errorf("empty input: header=%q rows=%d", ds.Header, ds.Len())
	}
}

func TestField(t *testing.T) {
	row := []string{"a", "b"}
	for _, tt := range []struct {
		idx  int
		want string
	}{{0, "a"}, {1, "b"}, {2, ""}, {-1, ""}} {
		if got := Field(row, tt.idx); got != tt.want {
			t.Errorf("Field(%d) = %q, want %q", tt.idx, got, tt.want)
		}
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gdp.csv")
	os.WriteFile(path, []byte("Country Name,Country Code\nFrance,FRA\n"), 0o644)

	ds, err := ReadFile(path, Options{})
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if ds.Len() != 1 || ds.Rows[0][1] != "FRA" {
		t.Errorf("rows = %q, want [[France FRA]]", ds.Rows)
	}
}

func TestReadFile_Missing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv"), Options{}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParse_Windows1252(t *testing.T) {
	// "Côte" with ô encoded as 0xF4 in windows-1252.
	raw := []byte("Country Name,Country Code\nC\xf4te d'Ivoire,CIV\n")
	ds, err := Parse(strings.NewReader(string(raw)), Options{Encoding: "windows-1252"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := ds.Rows[0][0]; got != "Côte d'Ivoire" {
		t.Errorf("name = %q, want Côte d'Ivoire", got)
	}
}

func TestParse_UnknownEncoding(t *testing.T) {
	if _, err := Parse(strings.NewReader("a\n"), Options{Encoding: "klingon-8"}); err == nil {
		t.Error("expected error for unknown encoding")
	}
}

func TestColumns(t *testing.T) {
	header := []string{"ISO", "Country", "Sector", "Gas", "2020", "Sector"}
	idx := Columns(header, "ISO", "Sector", "Unit")

	if idx.Pos("ISO") != 0 {
		t.Errorf("ISO = %d, want 0", idx.Pos("ISO"))
	}
	if idx.Pos("Sector") != 2 {
		t.Errorf("Sector = %d, want 2 (first occurrence)", idx.Pos("Sector"))
	}
	if _, ok := idx["Unit"]; ok {
		t.Error("unresolved column should be absent")
	}
	if idx.Pos("Unit") != -1 {
		t.Errorf("Pos(Unit) = %d, want -1", idx.Pos("Unit"))
	}
}

func TestYearColumns(t *testing.T) {
	header := []string{"ISO", "Country", "1989", "1990", "2000", "2020", "2021", "Unit"}
	idx := YearColumns(header, 1990, 2020)

	want := ColumnIndex{"1990": 3, "2000": 4, "2020": 5}
	if !reflect.DeepEqual(idx, want) {
		t.Errorf("YearColumns = %v, want %v", idx, want)
	}
	if got := idx.Names(); !reflect.DeepEqual(got, []string{"1990", "2000", "2020"}) {
		t.Errorf("Names = %q", got)
	}
}

func TestYearColumns_Strict(t *testing.T) {
	header := []string{"1990.0", "1991a", "1993 ", "1994"}
	idx := YearColumns(header, 1990, 2020)

	want := ColumnIndex{"1993 ": 2, "1994": 3}
	if !reflect.DeepEqual(idx, want) {
		t.Errorf("YearColumns = %v, want %v", idx, want)
	}
}
