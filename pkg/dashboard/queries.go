package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hazyhaar/climate-dashboard/pkg/aggregate"
	"github.com/hazyhaar/climate-dashboard/pkg/project"
)

// TopCountries ranks reference countries by m at year (latest point when
// year is empty). limit 0 means the configured default.
func (s *Service) TopCountries(ctx context.Context, m Metric, limit int, year string) ([]project.Ranked, error) {
	if _, err := ParseMetric(string(m)); err != nil {
		return nil, err
	}
	if err := CheckYear(year); err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, invalidf("Invalid limit %d", limit)
	}
	if limit == 0 {
		limit = s.cfg.TopLimit
	}

	idx, err := s.countryIndex(ctx)
	if err != nil {
		return nil, err
	}
	d, err := s.loadMetric(ctx, m)
	if err != nil {
		return nil, err
	}
	series := d.byCode()

	items := make([]project.Ranked, 0, len(idx.list))
	for _, c := range idx.list {
		if p, ok := pick(series[c.Code], year); ok {
			items = append(items, project.Ranked{Country: c.Name, Value: p.Value})
		}
	}
	return project.Rank(items, limit), nil
}

// ScatterPoint is one country of the GDP vs population plot.
type ScatterPoint struct {
	Country      string  `json:"country"`
	Population   float64 `json:"population"`
	GDP          float64 `json:"gdp"`
	GDPPerCapita float64 `json:"gdpPerCapita"`
}

// loadMetrics loads several metrics concurrently.
func (s *Service) loadMetrics(ctx context.Context, ms ...Metric) ([]*metricData, error) {
	out := make([]*metricData, len(ms))
	g, gctx := errgroup.WithContext(ctx)
	for i, m := range ms {
		g.Go(func() error {
			d, err := s.loadMetric(gctx, m)
			if err != nil {
				return err
			}
			out[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Scatter pairs GDP and population per reference country at year (latest
// points when empty). Countries lacking either value or under the
// population threshold are left out.
func (s *Service) Scatter(ctx context.Context, year string) ([]ScatterPoint, error) {
	if err := CheckYear(year); err != nil {
		return nil, err
	}
	idx, err := s.countryIndex(ctx)
	if err != nil {
		return nil, err
	}
	ds, err := s.loadMetrics(ctx, GDP, Population)
	if err != nil {
		return nil, err
	}
	gdp, pop := ds[0].byCode(), ds[1].byCode()

	out := make([]ScatterPoint, 0, len(idx.list))
	for _, c := range idx.list {
		g, gok := pick(gdp[c.Code], year)
		p, pok := pick(pop[c.Code], year)
		if !gok || !pok || g.Value <= 0 || p.Value <= 0 {
			continue
		}
		if p.Value <= s.cfg.ScatterMinPopulation {
			continue
		}
		out = append(out, ScatterPoint{
			Country:      c.Name,
			Population:   p.Value,
			GDP:          g.Value,
			GDPPerCapita: g.Value / p.Value,
		})
	}
	return out, nil
}

var radarAxes = []struct {
	metric Metric
	label  string
}{
	{GDP, "GDP"},
	{Population, "Population"},
	{Emissions, "Emissions"},
}

// Radar scores the latest GDP, population and emissions of each country
// against the largest value among the requested ones.
func (s *Service) Radar(ctx context.Context, countries []string) ([]project.Row, error) {
	codes, err := s.ResolveCodes(ctx, countries)
	if err != nil {
		return nil, err
	}

	ms := make([]Metric, len(radarAxes))
	for i, a := range radarAxes {
		ms[i] = a.metric
	}
	data, err := s.loadMetrics(ctx, ms...)
	if err != nil {
		return nil, err
	}

	metrics := make([]project.Metric, len(radarAxes))
	for i, a := range radarAxes {
		series := data[i].byCode()
		vals := make(map[string]float64, len(codes))
		for _, c := range codes {
			if p, ok := series[c].Last(); ok {
				vals[c] = p.Value
			}
		}
		metrics[i] = project.Metric{Name: a.label, Values: vals}
	}
	return project.Radar(codes, metrics), nil
}

// Compare lays the series of m for several countries side by side, one row
// per year present in any of them.
func (s *Service) Compare(ctx context.Context, m Metric, countries []string) ([]project.Row, error) {
	if _, err := ParseMetric(string(m)); err != nil {
		return nil, err
	}
	codes, err := s.ResolveCodes(ctx, countries)
	if err != nil {
		return nil, err
	}
	d, err := s.loadMetric(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("compare %s: %w", m, err)
	}
	series := d.byCode()

	lookup := make(map[string]aggregate.Table, len(codes))
	years := make(aggregate.Table)
	for _, c := range codes {
		t := make(aggregate.Table, len(series[c]))
		for _, p := range series[c] {
			t[p.Year] = p.Value
			years[p.Year] = 0
		}
		lookup[c] = t
	}
	return project.Wide(years.Years(), codes, lookup), nil
}
