package dashboard

import (
	"context"

	"github.com/hazyhaar/climate-dashboard/pkg/table"
)

type sectorRow struct {
	ISO       string `csv:"ISO"`
	Country   string `csv:"Country"`
	Sector    string `csv:"Sector"`
	Year      string `csv:"Year"`
	Emissions string `csv:"Predicted_Emissions"`
}

// SectorPrediction is one country, sector and year of the sector-level
// predictions.
type SectorPrediction struct {
	ISO                string  `json:"iso"`
	Country            string  `json:"country"`
	Sector             string  `json:"sector"`
	Year               string  `json:"year"`
	PredictedEmissions float64 `json:"predictedEmissions"`
}

// SectorPredictions returns the sector predictions, optionally restricted to
// countries named in names (case and accent insensitive). Rows with an empty
// key field or a zero value are skipped.
func (s *Service) SectorPredictions(ctx context.Context, names []string) ([]SectorPrediction, error) {
	var want map[string]bool
	if len(names) > 0 {
		want = make(map[string]bool, len(names))
		for _, n := range names {
			want[table.FoldName(n)] = true
		}
	}

	ds, err := s.data.Load(ctx, DatasetSectorPredictions)
	if err != nil {
		return nil, err
	}
	rows, err := table.DecodeAll[sectorRow](ds)
	if err != nil {
		return nil, err
	}

	out := make([]SectorPrediction, 0, len(rows))
	for _, r := range rows {
		v := table.Coerce(r.Emissions)
		if r.ISO == "" || r.Country == "" || r.Sector == "" || r.Year == "" || v == 0 {
			continue
		}
		if want != nil && !want[table.FoldName(r.Country)] {
			continue
		}
		out = append(out, SectorPrediction{
			ISO:                r.ISO,
			Country:            r.Country,
			Sector:             r.Sector,
			Year:               r.Year,
			PredictedEmissions: v,
		})
	}
	return out, nil
}

// RawSectorPrediction mirrors the columns of the raw sector file.
type RawSectorPrediction struct {
	ISO                string  `json:"ISO"`
	Country            string  `json:"Country"`
	Sector             string  `json:"Sector"`
	Year               int     `json:"Year"`
	PredictedEmissions float64 `json:"Predicted_Emissions"`
}

// SectorPredictionsRaw returns every row of at least five fields, read by
// position: ISO, Country, Sector, Year, Predicted_Emissions.
func (s *Service) SectorPredictionsRaw(ctx context.Context) ([]RawSectorPrediction, error) {
	ds, err := s.data.Load(ctx, DatasetSectorPredictionsRaw)
	if err != nil {
		return nil, err
	}
	out := make([]RawSectorPrediction, 0, ds.Len())
	for _, row := range ds.Rows {
		if len(row) < 5 {
			continue
		}
		out = append(out, RawSectorPrediction{
			ISO:                row[0],
			Country:            row[1],
			Sector:             row[2],
			Year:               int(table.Coerce(row[3])),
			PredictedEmissions: table.Coerce(row[4]),
		})
	}
	return out, nil
}
