// CLAUDE:SUMMARY Output shapes of the dashboard: rankings, wide year tables, normalized radar rows.
package project

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"

	"github.com/hazyhaar/climate-dashboard/pkg/aggregate"
)

// Ranked is one entry of a single-year ranking.
type Ranked struct {
	Country string  `json:"country"`
	Value   float64 `json:"value"`
}

// Rank keeps positive values, sorts them descending and truncates to limit
// when limit > 0. Equal values keep their input order.
func Rank(items []Ranked, limit int) []Ranked {
	out := make([]Ranked, 0, len(items))
	for _, it := range items {
		if it.Value > 0 {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Row is a flat JSON object with one label field followed by one numeric
// field per key, in key order.
type Row struct {
	LabelKey string
	Label    string
	Keys     []string
	Values   map[string]float64
}

// MarshalJSON writes the label first, then every key in order. Missing
// values are written as 0.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeField(&buf, r.LabelKey, r.Label); err != nil {
		return nil, err
	}
	for _, k := range r.Keys {
		buf.WriteByte(',')
		if err := writeField(&buf, k, r.Values[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeField(buf *bytes.Buffer, key string, v any) error {
	kb, err := json.Marshal(key)
	if err != nil {
		return err
	}
	vb, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(kb)
	buf.WriteByte(':')
	buf.Write(vb)
	return nil
}

// Wide builds one row per year with one column per code; lookup misses are 0.
func Wide(years, codes []string, lookup map[string]aggregate.Table) []Row {
	rows := make([]Row, 0, len(years))
	for _, y := range years {
		vals := make(map[string]float64, len(codes))
		for _, c := range codes {
			vals[c] = lookup[c][y]
		}
		rows = append(rows, Row{LabelKey: "year", Label: y, Keys: codes, Values: vals})
	}
	return rows
}

// Metric is one axis of the radar: the raw value per entity code.
type Metric struct {
	Name   string
	Values map[string]float64
}

// Radar normalizes each metric to the largest value across codes, scaled to
// 100 and rounded to one decimal. A metric whose maximum is not positive
// scores 0 for every code.
func Radar(codes []string, metrics []Metric) []Row {
	rows := make([]Row, 0, len(metrics))
	for _, m := range metrics {
		peak := 0.0
		for _, c := range codes {
			if v := m.Values[c]; v > peak {
				peak = v
			}
		}
		vals := make(map[string]float64, len(codes))
		for _, c := range codes {
			score := 0.0
			if peak > 0 {
				score = aggregate.Round(m.Values[c]/peak*100, 1)
			}
			if math.IsNaN(score) || math.IsInf(score, 0) {
				score = 0
			}
			vals[c] = score
		}
		rows = append(rows, Row{LabelKey: "metric", Label: m.Name, Keys: codes, Values: vals})
	}
	return rows
}
