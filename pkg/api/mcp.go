package api

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hazyhaar/climate-dashboard/pkg/dashboard"
	"github.com/hazyhaar/climate-dashboard/pkg/dataset"
	"github.com/hazyhaar/climate-dashboard/pkg/kit"
)

// RegisterMCPTools registers the dashboard queries as MCP tools. They run the
// same endpoints as the HTTP routes.
func RegisterMCPTools(srv *server.MCPServer, svc *dashboard.Service, catalog *dataset.Catalog, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	ep := newEndpoints(svc, catalog, logger)

	metricArg := mcp.WithString("type", mcp.Description("Metric: gdp, population or emissions"))
	countriesArg := mcp.WithString("countries", mcp.Required(), mcp.Description("Comma-separated ISO3 codes or country names (e.g. USA,France)"))
	yearArg := mcp.WithString("year", mcp.Description("Four-digit year; latest available when omitted"))

	kit.RegisterMCPTool(srv, mcp.NewTool("list_countries",
		mcp.WithDescription("List reference countries (ISO3 code and name) sorted by name."),
	), ep.countries, noArgs)

	kit.RegisterMCPTool(srv, mcp.NewTool("get_series",
		mcp.WithDescription("Yearly series of GDP, population or GHG emissions, global or for one country."),
		metricArg,
		mcp.WithString("country", mcp.Description("ISO3 code or name; global totals when omitted")),
	), ep.series, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		m := kit.StringArg(req, "type")
		if m == "" {
			m = string(dashboard.GDP)
		}
		return &kit.MCPDecodeResult{Request: &seriesReq{
			Metric:  dashboard.Metric(m),
			Country: kit.StringArg(req, "country"),
		}}, nil
	})

	kit.RegisterMCPTool(srv, mcp.NewTool("top_countries",
		mcp.WithDescription("Rank countries by GDP, population or emissions for a year."),
		mcp.WithString("type", mcp.Required(), mcp.Description("Metric: gdp, population or emissions")),
		mcp.WithNumber("limit", mcp.Description("Number of countries (default 10)")),
		yearArg,
	), ep.top, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		limit, err := kit.IntArg(req, "limit")
		if err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &topReq{
			Metric: dashboard.Metric(kit.StringArg(req, "type")),
			Limit:  limit,
			Year:   kit.StringArg(req, "year"),
		}}, nil
	})

	kit.RegisterMCPTool(srv, mcp.NewTool("gdp_vs_population",
		mcp.WithDescription("GDP, population and GDP per capita per country (population above one million)."),
		yearArg,
	), ep.scatter, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: &yearReq{Year: kit.StringArg(req, "year")}}, nil
	})

	kit.RegisterMCPTool(srv, mcp.NewTool("compare_radar",
		mcp.WithDescription("Latest GDP, population and emissions scored 0-100 against the largest of the given countries."),
		countriesArg,
	), ep.radar, countriesDecoder)

	kit.RegisterMCPTool(srv, mcp.NewTool("compare_countries",
		mcp.WithDescription("Side-by-side yearly values of one metric for several countries."),
		mcp.WithString("type", mcp.Required(), mcp.Description("Metric: gdp, population or emissions")),
		countriesArg,
	), ep.compare, countriesDecoder)

	kit.RegisterMCPTool(srv, mcp.NewTool("compare_emissions",
		mcp.WithDescription("Historical (to 2020) and predicted (2021-2030) emissions for several countries, one row per year keyed by ISO3 code."),
		mcp.WithString("countries", mcp.Required(), mcp.Description("Comma-separated ISO3 codes or country names")),
	), ep.compareEmissions, countriesDecoder)

	kit.RegisterMCPTool(srv, mcp.NewTool("combined_emissions",
		mcp.WithDescription("Historical and predicted emissions: one country's series, a ranking for a year, or every country."),
		mcp.WithString("country", mcp.Description("ISO3 code or country name as in the emissions files")),
		mcp.WithString("year", mcp.Description("Four-digit year to rank countries by")),
		mcp.WithNumber("limit", mcp.Description("Maximum ranking entries")),
	), ep.combined, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		limit, err := kit.IntArg(req, "limit")
		if err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &combinedReq{
			Country: kit.StringArg(req, "country"),
			Year:    kit.StringArg(req, "year"),
			Limit:   limit,
		}}, nil
	})

	kit.RegisterMCPTool(srv, mcp.NewTool("sector_emissions",
		mcp.WithDescription("Predicted emissions per sector (2021-2030), optionally for some countries."),
		mcp.WithString("countries", mcp.Description("Comma-separated country names")),
	), ep.sector, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: &namesReq{Names: dashboard.SplitList(kit.StringArg(req, "countries"))}}, nil
	})

	kit.RegisterMCPTool(srv, mcp.NewTool("list_datasets",
		mcp.WithDescription("Dataset files with size, row count and last check status."),
	), ep.datasets, noArgs)
}

func noArgs(mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	return &kit.MCPDecodeResult{Request: nil}, nil
}

func countriesDecoder(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	return &kit.MCPDecodeResult{Request: &countriesReq{
		Metric:    dashboard.Metric(kit.StringArg(req, "type")),
		Countries: dashboard.SplitList(kit.StringArg(req, "countries")),
	}}, nil
}
