package table

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitLines(t *testing.T) {
	got := SplitLines("a,b\r\n\r\n  c,d  \n\n e \r\n")
	want := []string{"a,b", "c,d", "e"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitLines = %q, want %q", got, want)
	}
}

func TestParseRow(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{`a,b,c`, []string{"a", "b", "c"}},
		{`a,,c`, []string{"a", "", "c"}},
		{`a,b,`, []string{"a", "b", ""}},
		{``, []string{""}},
		{`"Korea, Rep.",KOR`, []string{"Korea, Rep.", "KOR"}},
		{`"say ""hi""",x`, []string{`say "hi"`, "x"}},
		{`"1,234.5",7`, []string{"1,234.5", "7"}},
		{`USA,"United States`, []string{"USA", "United States"}},
		{`a,"open, never closed,x`, []string{"a", "open, never closed,x"}},
		{`Côte d'Ivoire,CIV`, []string{"Côte d'Ivoire", "CIV"}},
	}
	for _, tt := range tests {
		got := ParseRow(tt.line)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseRow(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

// quoteRow joins fields the way a CSV writer would: fields holding a comma
// or a quote are wrapped in quotes with inner quotes doubled.
func quoteRow(fields []string) string {
	out := make([]string, len(fields))
	for i, f := range fields {
		if strings.ContainsAny(f, `,"`) {
			f = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		}
		out[i] = f
	}
	return strings.Join(out, ",")
}

func TestParseRow_RoundTrip(t *testing.T) {
	rows := [][]string{
		{"USA", "United States", "Total including LUCF", "All GHG", "100"},
		{"", "", ""},
		{`"`, `""`, `a"b`, `,`, `,,"`},
		{"Bonaire, Sint Eustatius and Saba", "BES", "1,234"},
		{"trailing space ", " leading"},
		{"日本", "JPN"},
	}
	for _, fields := range rows {
		line := quoteRow(fields)
		got := ParseRow(line)
		if !reflect.DeepEqual(got, fields) {
			t.Errorf("ParseRow(%q) = %q, want %q", line, got, fields)
		}
	}
}
