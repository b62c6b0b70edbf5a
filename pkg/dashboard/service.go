// CLAUDE:SUMMARY Query service over the dashboard datasets: reference countries, per-metric series and the request validation shared by every query.
package dashboard

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/hazyhaar/climate-dashboard/pkg/aggregate"
	"github.com/hazyhaar/climate-dashboard/pkg/table"
)

// Loader returns the parsed dataset registered under name.
type Loader interface {
	Load(ctx context.Context, name string) (*table.DataSet, error)
}

// Service answers dashboard queries by reading datasets through a Loader.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	cfg  Config
	data Loader
}

// New creates a Service.
func New(cfg Config, data Loader) *Service {
	return &Service{cfg: cfg, data: data}
}

// Config returns the configuration the Service was built with.
func (s *Service) Config() Config { return s.cfg }

// Metric selects one of the wide datasets.
type Metric string

const (
	GDP        Metric = "gdp"
	Population Metric = "population"
	Emissions  Metric = "emissions"
)

// ParseMetric accepts gdp, population or emissions in any case.
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(strings.ToLower(strings.TrimSpace(s))); m {
	case GDP, Population, Emissions:
		return m, nil
	}
	return "", invalidf("Invalid type")
}

// CheckYear accepts an empty string or a four-digit year.
func CheckYear(year string) error {
	if year == "" {
		return nil
	}
	if len(year) != 4 {
		return invalidf("Invalid year %q", year)
	}
	if _, err := strconv.Atoi(year); err != nil || year[0] == '-' || year[0] == '+' {
		return invalidf("Invalid year %q", year)
	}
	return nil
}

// SplitList splits a comma separated parameter, trimming entries and
// dropping empty ones.
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CountryMeta is one entry of the reference table.
type CountryMeta struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Reference table layout: display name, then ISO3 code.
const (
	nameCol = 0
	codeCol = 1
)

type countryIndex struct {
	list   []CountryMeta
	byCode map[string]CountryMeta
	byName map[string]string // folded name -> code
}

func (s *Service) countryIndex(ctx context.Context) (*countryIndex, error) {
	ds, err := s.data.Load(ctx, DatasetCountries)
	if err != nil {
		return nil, err
	}

	byCode := make(map[string]CountryMeta)
	for _, row := range ds.Rows {
		name, code := table.Field(row, nameCol), table.Field(row, codeCol)
		if name == "" || code == "" {
			continue
		}
		byCode[code] = CountryMeta{Code: code, Name: name}
	}

	idx := &countryIndex{
		list:   make([]CountryMeta, 0, len(byCode)),
		byCode: byCode,
		byName: make(map[string]string, len(byCode)),
	}
	for _, c := range byCode {
		idx.list = append(idx.list, c)
		idx.byName[table.FoldName(c.Name)] = c.Code
	}
	sortByName(idx.list, func(c CountryMeta) string { return c.Name }, func(c CountryMeta) string { return c.Code })
	return idx, nil
}

// sortByName orders items by the English collation of name, then by tie.
func sortByName[T any](items []T, name, tie func(T) string) {
	col := collate.New(language.English)
	sort.SliceStable(items, func(i, j int) bool {
		if c := col.CompareString(name(items[i]), name(items[j])); c != 0 {
			return c < 0
		}
		return tie(items[i]) < tie(items[j])
	})
}

// Countries returns the reference table deduplicated by code (last row wins)
// and sorted by display name.
func (s *Service) Countries(ctx context.Context) ([]CountryMeta, error) {
	idx, err := s.countryIndex(ctx)
	if err != nil {
		return nil, err
	}
	return idx.list, nil
}

// ResolveCodes maps ISO3 codes or display names to reference codes, keeping
// the input order and dropping duplicates.
func (s *Service) ResolveCodes(ctx context.Context, inputs []string) ([]string, error) {
	if len(inputs) == 0 {
		return nil, invalidf("No countries specified")
	}
	idx, err := s.countryIndex(ctx)
	if err != nil {
		return nil, err
	}
	return idx.resolve(inputs)
}

func (idx *countryIndex) resolve(inputs []string) ([]string, error) {
	seen := make(map[string]bool, len(inputs))
	codes := make([]string, 0, len(inputs))
	for _, in := range inputs {
		code, ok := idx.lookup(in)
		if !ok {
			return nil, notFoundf("Unknown country %q", in)
		}
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	return codes, nil
}

func (idx *countryIndex) lookup(in string) (string, bool) {
	if _, ok := idx.byCode[in]; ok {
		return in, true
	}
	if _, ok := idx.byCode[strings.ToUpper(in)]; ok {
		return strings.ToUpper(in), true
	}
	code, ok := idx.byName[table.FoldName(in)]
	return code, ok
}

// metricData is one wide dataset with the rows and year columns a metric
// aggregates over.
type metricData struct {
	metric Metric
	ds     *table.DataSet
	years  table.ColumnIndex
	key    aggregate.Key
	pred   aggregate.Predicate
}

func (s *Service) loadMetric(ctx context.Context, m Metric) (*metricData, error) {
	switch m {
	case GDP, Population:
		name := DatasetGDP
		if m == Population {
			name = DatasetPopulation
		}
		ds, err := s.data.Load(ctx, name)
		if err != nil {
			return nil, err
		}
		r := s.cfg.Years.GDPPopulation
		return &metricData{
			metric: m,
			ds:     ds,
			years:  table.YearColumns(ds.Header, r.From, r.To),
			key:    aggregate.Column(codeCol),
		}, nil

	case Emissions:
		ds, err := s.data.Load(ctx, DatasetEmissions)
		if err != nil {
			return nil, err
		}
		r := s.cfg.Years.Emissions
		cols := table.Columns(ds.Header, "ISO", "Sector", "Gas")
		return &metricData{
			metric: m,
			ds:     ds,
			years:  table.YearColumns(ds.Header, r.From, r.To),
			key:    aggregate.Column(cols.Pos("ISO")),
			pred: aggregate.All(
				aggregate.Equals(cols.Pos("Sector"), s.cfg.Filters.SectorExcludingLUCF),
				aggregate.Equals(cols.Pos("Gas"), s.cfg.Filters.Gas),
			),
		}, nil
	}
	return nil, invalidf("Invalid type")
}

// global sums every matching row per year. GDP and emissions keep two
// decimals, population is rounded to whole people.
func (d *metricData) global() aggregate.Series {
	places := 2
	if d.metric == Population {
		places = 0
	}
	return aggregate.SumByYear(d.ds, d.years, d.pred).Series().Round(places)
}

// byCode builds one series per country code. GDP and population take the
// first row of a code and drop missing (zero) years; emissions sum every
// matching row of a code.
func (d *metricData) byCode() map[string]aggregate.Series {
	var tables map[string]aggregate.Table
	if d.metric == Emissions {
		tables = aggregate.SumByEntityYear(d.ds, d.key, d.years, d.pred)
	} else {
		tables = aggregate.FirstByEntityYear(d.ds, d.key, d.years, d.pred)
	}

	out := make(map[string]aggregate.Series, len(tables))
	for code, t := range tables {
		if d.metric == Emissions {
			out[code] = t.Series().Round(2)
		} else {
			out[code] = t.Series().NonZero()
		}
	}
	return out
}

// GlobalSeries returns the per-year total of m over all countries.
func (s *Service) GlobalSeries(ctx context.Context, m Metric) (aggregate.Series, error) {
	d, err := s.loadMetric(ctx, m)
	if err != nil {
		return nil, err
	}
	return d.global(), nil
}

// CountrySeries returns the series of m for one country, given by code or
// name. A known country without data yields an empty series.
func (s *Service) CountrySeries(ctx context.Context, m Metric, country string) (string, aggregate.Series, error) {
	if _, err := ParseMetric(string(m)); err != nil {
		return "", nil, err
	}
	codes, err := s.ResolveCodes(ctx, []string{country})
	if err != nil {
		return "", nil, err
	}
	d, err := s.loadMetric(ctx, m)
	if err != nil {
		return "", nil, err
	}
	series := d.byCode()[codes[0]]
	if series == nil {
		series = aggregate.Series{}
	}
	return codes[0], series, nil
}

// pick returns the point at year, or the latest point when year is empty.
func pick(s aggregate.Series, year string) (aggregate.YearValue, bool) {
	if year != "" {
		return s.At(year)
	}
	return s.Last()
}
