package table

import (
	"io"
	"testing"
)

type predictionRow struct {
	ISO       string `csv:"ISO"`
	Country   string `csv:"Country"`
	Year      string `csv:"Year"`
	Predicted string `csv:"Predicted_Emissions"`
	Missing   string `csv:"NotInHeader"`
}

func TestDecodeAll(t *testing.T) {
	ds := ParseString(`ISO,Country,Year,Predicted_Emissions
USA,United States,2025,250
FRA,France,2025
DEU,Germany,2026,"1,000",extra`)

	rows, err := DecodeAll[predictionRow](ds)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0].ISO != "USA" || rows[0].Predicted != "250" {
		t.Errorf("row 0 = %+v", rows[0])
	}
	// Short row: missing trailing cell decodes as empty.
	if rows[1].Predicted != "" {
		t.Errorf("short row Predicted = %q, want empty", rows[1].Predicted)
	}
	// Long row: extra cells are dropped.
	if rows[2].Predicted != "1,000" {
		t.Errorf("long row Predicted = %q, want 1,000", rows[2].Predicted)
	}
	if rows[0].Missing != "" {
		t.Errorf("Missing = %q, want empty", rows[0].Missing)
	}
}

func TestDecodeAll_NoHeader(t *testing.T) {
	rows, err := DecodeAll[predictionRow](ParseString(""))
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %d, want 0", len(rows))
	}
}

func TestRecordReader(t *testing.T) {
	ds := ParseString("a,b\n1\n2,3,4\n")
	r := ds.Records()

	rec, err := r.Read()
	if err != nil || len(rec) != 2 || rec[0] != "1" || rec[1] != "" {
		t.Fatalf("first record = %q, %v", rec, err)
	}
	rec, _ = r.Read()
	if len(rec) != 2 || rec[1] != "3" {
		t.Errorf("second record = %q", rec)
	}
	if _, err := r.Read(); err != io.EOF {
		t.Errorf("err = %v, want io.EOF", err)
	}
}

func TestFoldName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"France", "france"},
		{"  Côte d'Ivoire ", "cote d'ivoire"},
		{"TÜRKIYE", "turkiye"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FoldName(tt.in); got != tt.want {
			t.Errorf("FoldName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
