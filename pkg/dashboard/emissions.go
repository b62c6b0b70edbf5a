// CLAUDE:SUMMARY Historical emissions merged with 2021+ predictions: per-country series, yearly rankings and dense multi-country tables.
package dashboard

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hazyhaar/climate-dashboard/pkg/aggregate"
	"github.com/hazyhaar/climate-dashboard/pkg/project"
	"github.com/hazyhaar/climate-dashboard/pkg/table"
)

// predictionRow is one line of the long-format emissions predictions file.
// Values stay strings so a malformed cell coerces to 0 instead of failing
// the decode.
type predictionRow struct {
	ISO       string `csv:"ISO"`
	Country   string `csv:"Country"`
	Year      string `csv:"Year"`
	Emissions string `csv:"Predicted_Emissions"`
}

// combined is historical "including LUCF" emissions merged with predictions,
// keyed by country name and by ISO code. Historical rows are filtered on the
// configured gas ("All GHG") as well as the sector, for every combined query
// including compare-emissions, so a per-gas row listed after the all-gases
// one never overwrites it.
type combined struct {
	byName map[string]aggregate.Table
	byISO  map[string]aggregate.Table
	isoOf  map[string]string // folded country name -> ISO code
}

// isoKey returns in as a byISO key, matching codes in any case.
func (c *combined) isoKey(in string) (string, bool) {
	if _, ok := c.byISO[in]; ok {
		return in, true
	}
	up := strings.ToUpper(in)
	_, ok := c.byISO[up]
	return up, ok
}

// code resolves an ISO code (any case) or a country name spelled as in the
// emissions files to the ISO key of byISO.
func (c *combined) code(in string) (string, bool) {
	if iso, ok := c.isoKey(in); ok {
		return iso, true
	}
	iso, ok := c.isoOf[table.FoldName(in)]
	if !ok {
		return "", false
	}
	_, ok = c.byISO[iso]
	return iso, ok
}

// lookup returns the merged values of one country given by ISO code or name.
func (c *combined) lookup(in string) (aggregate.Table, bool) {
	if iso, ok := c.isoKey(in); ok {
		return c.byISO[iso], true
	}
	if t, ok := c.byName[in]; ok {
		return t, true
	}
	folded := table.FoldName(in)
	for name, t := range c.byName {
		if table.FoldName(name) == folded {
			return t, true
		}
	}
	return nil, false
}

func (s *Service) loadCombined(ctx context.Context) (*combined, error) {
	var hist, pred *table.DataSet
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		hist, err = s.data.Load(gctx, DatasetEmissions)
		return err
	})
	g.Go(func() error {
		var err error
		pred, err = s.data.Load(gctx, DatasetEmissionsPredictions)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r := s.cfg.Years.Emissions
	years := table.YearColumns(hist.Header, r.From, r.To)
	cols := table.Columns(hist.Header, "ISO", "Country", "Sector", "Gas")
	filter := aggregate.All(
		aggregate.Equals(cols.Pos("Sector"), s.cfg.Filters.SectorIncludingLUCF),
		aggregate.Equals(cols.Pos("Gas"), s.cfg.Filters.Gas),
	)
	histByName := aggregate.ByEntityYear(hist, aggregate.Column(cols.Pos("Country")), years, filter)
	histByISO := aggregate.ByEntityYear(hist, aggregate.Column(cols.Pos("ISO")), years, filter)

	isoOf := make(map[string]string)
	link := func(name, iso string) {
		if name != "" && iso != "" {
			isoOf[table.FoldName(name)] = iso
		}
	}
	for _, row := range hist.Rows {
		link(table.Field(row, cols.Pos("Country")), table.Field(row, cols.Pos("ISO")))
	}

	rows, err := table.DecodeAll[predictionRow](pred)
	if err != nil {
		return nil, err
	}
	byName := make([]aggregate.Point, 0, len(rows))
	byISO := make([]aggregate.Point, 0, len(rows))
	for _, row := range rows {
		link(row.Country, row.ISO)
		v := table.Coerce(row.Emissions)
		byName = append(byName, aggregate.Point{Entity: row.Country, Year: row.Year, Value: v})
		byISO = append(byISO, aggregate.Point{Entity: row.ISO, Year: row.Year, Value: v})
	}

	cut := s.cfg.CutoffYear
	return &combined{
		byName: aggregate.MergeAll(histByName, aggregate.Collect(byName), cut),
		byISO:  aggregate.MergeAll(histByISO, aggregate.Collect(byISO), cut),
		isoOf:  isoOf,
	}, nil
}

// CombinedSeries returns the merged series of one country, given by its ISO
// code or by its name as spelled in the emissions files.
func (s *Service) CombinedSeries(ctx context.Context, country string) (aggregate.Series, error) {
	if country == "" {
		return nil, invalidf("No country specified")
	}
	c, err := s.loadCombined(ctx)
	if err != nil {
		return nil, err
	}
	t, ok := c.lookup(country)
	if !ok {
		return nil, notFoundf("Country not found")
	}
	return t.Series(), nil
}

// CombinedRanking ranks every country by its merged value at year. limit 0
// keeps every positive entry.
func (s *Service) CombinedRanking(ctx context.Context, year string, limit int) ([]project.Ranked, error) {
	if year == "" {
		return nil, invalidf("No year specified")
	}
	if err := CheckYear(year); err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, invalidf("Invalid limit %d", limit)
	}
	c, err := s.loadCombined(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]project.Ranked, 0, len(c.byName))
	for _, name := range sortedNames(c.byName) {
		items = append(items, project.Ranked{Country: name, Value: c.byName[name][year]})
	}
	return project.Rank(items, limit), nil
}

// CountryYears is one country with its merged year -> value map.
type CountryYears struct {
	Country string          `json:"country"`
	Years   aggregate.Table `json:"years"`
}

// CombinedAll returns every country of either emissions file, sorted by name.
func (s *Service) CombinedAll(ctx context.Context) ([]CountryYears, error) {
	c, err := s.loadCombined(ctx)
	if err != nil {
		return nil, err
	}
	names := sortedNames(c.byName)
	out := make([]CountryYears, len(names))
	for i, name := range names {
		out[i] = CountryYears{Country: name, Years: c.byName[name]}
	}
	return out, nil
}

// CompareEmissions returns one row per year of the combined range with the
// merged value of each requested country, given by ISO code or name and
// keyed by ISO code; missing years are 0.
func (s *Service) CompareEmissions(ctx context.Context, countries []string) ([]project.Row, error) {
	if len(countries) == 0 {
		return nil, invalidf("No countries specified")
	}
	c, err := s.loadCombined(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(countries))
	uniq := make([]string, 0, len(countries))
	for _, in := range countries {
		code, ok := c.code(in)
		if !ok {
			return nil, notFoundf("Unknown country %q", in)
		}
		if !seen[code] {
			seen[code] = true
			uniq = append(uniq, code)
		}
	}

	r := s.cfg.Years.Combined
	return project.Wide(aggregate.YearRange(r.From, r.To), uniq, c.byISO), nil
}

func sortedNames(m map[string]aggregate.Table) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	id := func(s string) string { return s }
	sortByName(names, id, id)
	return names
}
