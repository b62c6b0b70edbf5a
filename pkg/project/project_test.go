package project

import (
	"encoding/json"
	"testing"

	"github.com/hazyhaar/climate-dashboard/pkg/aggregate"
)

func TestRank(t *testing.T) {
	items := []Ranked{
		{"France", 3}, {"Chad", 0}, {"Peru", 7}, {"Laos", -1},
		{"Iran", 5}, {"Oman", 5}, {"Fiji", 1},
	}
	got := Rank(items, 3)

	want := []Ranked{{"Peru", 7}, {"Iran", 5}, {"Oman", 5}}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

// Every kept value must be >= every dropped positive value.
func TestRank_CutoffProperty(t *testing.T) {
	items := []Ranked{{"a", 4}, {"b", 9}, {"c", 2}, {"d", 9}, {"e", 6}, {"f", 1}}
	top := Rank(items, 2)
	all := Rank(items, 0)
	if len(all) != 6 {
		t.Fatalf("unlimited len = %d, want 6", len(all))
	}
	minKept := top[len(top)-1].Value
	for _, r := range all[len(top):] {
		if r.Value > minKept {
			t.Errorf("excluded %v above kept minimum %v", r, minKept)
		}
	}
	for i := 1; i < len(all); i++ {
		if all[i].Value > all[i-1].Value {
			t.Errorf("not descending at %d: %v > %v", i, all[i].Value, all[i-1].Value)
		}
	}
}

func TestWide(t *testing.T) {
	lookup := map[string]aggregate.Table{
		"USA": {"2000": 10, "2001": 11},
		"FRA": {"2001": 5},
	}
	rows := Wide([]string{"2000", "2001"}, []string{"USA", "FRA", "ZZZ"}, lookup)

	b, err := json.Marshal(rows)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `[{"year":"2000","USA":10,"FRA":0,"ZZZ":0},{"year":"2001","USA":11,"FRA":5,"ZZZ":0}]`
	if string(b) != want {
		t.Errorf("json = %s\nwant   %s", b, want)
	}
}

func TestRadar(t *testing.T) {
	codes := []string{"USA", "CHN"}
	rows := Radar(codes, []Metric{
		{Name: "GDP", Values: map[string]float64{"USA": 300, "CHN": 200}},
		{Name: "Population", Values: map[string]float64{"USA": 0, "CHN": 0}},
	})

	if rows[0].Values["USA"] != 100 || rows[0].Values["CHN"] != 66.7 {
		t.Errorf("GDP row = %v, want USA 100 CHN 66.7", rows[0].Values)
	}
	for _, c := range codes {
		if v := rows[1].Values[c]; v != 0 {
			t.Errorf("zero-max metric %s = %v, want 0", c, v)
		}
	}

	b, err := json.Marshal(rows[1])
	if err != nil {
		t.Fatalf("Marshal zero row: %v", err)
	}
	if string(b) != `{"metric":"Population","USA":0,"CHN":0}` {
		t.Errorf("json = %s", b)
	}
}
