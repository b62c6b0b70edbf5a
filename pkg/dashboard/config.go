// CLAUDE:SUMMARY Dashboard configuration: dataset file names, year ranges, prediction cutoff and categorical filter values.
package dashboard

// Dataset names as registered with the loader.
const (
	DatasetCountries            = "countries"
	DatasetGDP                  = "gdp"
	DatasetPopulation           = "population"
	DatasetEmissions            = "emissions"
	DatasetEmissionsPredictions = "emissions_predictions"
	DatasetSectorPredictions    = "sector_predictions"
	DatasetSectorPredictionsRaw = "sector_predictions_raw"
)

// Files names the CSV file of each dataset, relative to the data directory.
type Files struct {
	Countries            string `yaml:"countries"`
	GDP                  string `yaml:"gdp"`
	Population           string `yaml:"population"`
	Emissions            string `yaml:"emissions"`
	EmissionsPredictions string `yaml:"emissions_predictions"`
	SectorPredictions    string `yaml:"sector_predictions"`
	SectorPredictionsRaw string `yaml:"sector_predictions_raw"`
}

// Map returns the dataset name -> file table. An empty raw sector file falls
// back to the sector predictions file.
func (f Files) Map() map[string]string {
	raw := f.SectorPredictionsRaw
	if raw == "" {
		raw = f.SectorPredictions
	}
	return map[string]string{
		DatasetCountries:            f.Countries,
		DatasetGDP:                  f.GDP,
		DatasetPopulation:           f.Population,
		DatasetEmissions:            f.Emissions,
		DatasetEmissionsPredictions: f.EmissionsPredictions,
		DatasetSectorPredictions:    f.SectorPredictions,
		DatasetSectorPredictionsRaw: raw,
	}
}

// YearRange is an inclusive range of calendar years.
type YearRange struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

// Years groups the year windows read from the wide files.
type Years struct {
	GDPPopulation YearRange `yaml:"gdp_population"`
	Emissions     YearRange `yaml:"emissions"`
	Combined      YearRange `yaml:"combined"`
}

// Filters holds the categorical values rows are selected on.
type Filters struct {
	Gas                 string `yaml:"gas"`
	SectorExcludingLUCF string `yaml:"sector_excluding_lucf"`
	SectorIncludingLUCF string `yaml:"sector_including_lucf"`
}

// Config is the full query configuration of a Service.
type Config struct {
	Files                Files   `yaml:"files"`
	Years                Years   `yaml:"years"`
	CutoffYear           int     `yaml:"cutoff_year"`
	Filters              Filters `yaml:"filters"`
	ScatterMinPopulation float64 `yaml:"scatter_min_population"`
	TopLimit             int     `yaml:"top_limit"`
}

// DefaultConfig returns the configuration matching the published dataset.
func DefaultConfig() Config {
	return Config{
		Files: Files{
			Countries:            "country_gdp_filtered.csv",
			GDP:                  "country_gdp_filtered.csv",
			Population:           "country_population_filtered.csv",
			Emissions:            "historical_emissions.csv",
			EmissionsPredictions: "emissions_predictions_2021_2030.csv",
			SectorPredictions:    "sector_emissions_predictions_2021_2030.csv",
		},
		Years: Years{
			GDPPopulation: YearRange{From: 1960, To: 2024},
			Emissions:     YearRange{From: 1990, To: 2020},
			Combined:      YearRange{From: 1990, To: 2030},
		},
		CutoffYear: 2020,
		Filters: Filters{
			Gas:                 "All GHG",
			SectorExcludingLUCF: "Total excluding LUCF",
			SectorIncludingLUCF: "Total including LUCF",
		},
		ScatterMinPopulation: 1_000_000,
		TopLimit:             10,
	}
}
