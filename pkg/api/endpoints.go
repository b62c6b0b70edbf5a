package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hazyhaar/climate-dashboard/pkg/aggregate"
	"github.com/hazyhaar/climate-dashboard/pkg/dashboard"
	"github.com/hazyhaar/climate-dashboard/pkg/dataset"
	"github.com/hazyhaar/climate-dashboard/pkg/kit"
)

// Shared request/response types used by both HTTP and MCP transports.

// internalMessage is the only text a client sees for an internal failure.
const internalMessage = "Failed to load data."

var errInternal = errors.New(internalMessage)

type dataResponse struct {
	Data any `json:"data"`
}

type seriesResponse struct {
	Type    dashboard.Metric `json:"type"`
	Country *string          `json:"country"`
	Data    aggregate.Series `json:"data"`
}

type seriesReq struct {
	Metric  dashboard.Metric
	Country string
}

type topReq struct {
	Metric dashboard.Metric
	Limit  int
	Year   string
}

type yearReq struct {
	Year string
}

type countriesReq struct {
	Metric    dashboard.Metric
	Countries []string
}

type combinedReq struct {
	Country string
	Year    string
	Limit   int
}

type namesReq struct {
	Names []string
}

// DatasetInfo is one row of the dataset listing.
type DatasetInfo struct {
	Name      string     `json:"name"`
	Path      string     `json:"path"`
	Size      *int64     `json:"size"`
	SizeHuman string     `json:"size_human,omitempty"`
	Rows      *int       `json:"rows"`
	Modified  *time.Time `json:"modified,omitempty"`
	Status    string     `json:"status"`
	Error     string     `json:"error,omitempty"`
	CheckedAt string     `json:"checked,omitempty"`
}

type endpoints struct {
	countries        kit.Endpoint
	series           kit.Endpoint
	top              kit.Endpoint
	scatter          kit.Endpoint
	radar            kit.Endpoint
	compare          kit.Endpoint
	compareEmissions kit.Endpoint
	combined         kit.Endpoint
	sector           kit.Endpoint
	sectorRaw        kit.Endpoint
	datasets         kit.Endpoint
}

func newEndpoints(svc *dashboard.Service, catalog *dataset.Catalog, logger *slog.Logger) *endpoints {
	mw := kit.Chain(guard(logger), recoverPanic)
	return &endpoints{
		countries:        mw(countriesEndpoint(svc)),
		series:           mw(seriesEndpoint(svc)),
		top:              mw(topEndpoint(svc)),
		scatter:          mw(scatterEndpoint(svc)),
		radar:            mw(radarEndpoint(svc)),
		compare:          mw(compareEndpoint(svc)),
		compareEmissions: mw(compareEmissionsEndpoint(svc)),
		combined:         mw(combinedEndpoint(svc)),
		sector:           mw(sectorEndpoint(svc)),
		sectorRaw:        mw(sectorRawEndpoint(svc)),
		datasets:         mw(datasetsEndpoint(catalog)),
	}
}

// guard lets caller-facing errors through and replaces anything else with a
// generic message after logging the cause.
func guard(logger *slog.Logger) kit.Middleware {
	return func(next kit.Endpoint) kit.Endpoint {
		return func(ctx context.Context, request any) (any, error) {
			resp, err := next(ctx, request)
			if err == nil {
				return resp, nil
			}
			var de *dashboard.Error
			if errors.As(err, &de) {
				return nil, de
			}
			logger.ErrorContext(ctx, "query failed",
				"transport", kit.GetTransport(ctx),
				"request_id", kit.GetRequestID(ctx),
				"error", err,
			)
			return nil, errInternal
		}
	}
}

func recoverPanic(next kit.Endpoint) kit.Endpoint {
	return func(ctx context.Context, request any) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				resp, err = nil, fmt.Errorf("panic: %v", r)
			}
		}()
		return next(ctx, request)
	}
}

func countriesEndpoint(svc *dashboard.Service) kit.Endpoint {
	return func(ctx context.Context, _ any) (any, error) {
		list, err := svc.Countries(ctx)
		if err != nil {
			return nil, err
		}
		return dataResponse{Data: list}, nil
	}
}

func seriesEndpoint(svc *dashboard.Service) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*seriesReq)
		if _, err := dashboard.ParseMetric(string(req.Metric)); err != nil {
			return nil, err
		}
		if req.Country == "" {
			s, err := svc.GlobalSeries(ctx, req.Metric)
			if err != nil {
				return nil, err
			}
			return seriesResponse{Type: req.Metric, Data: s}, nil
		}
		code, s, err := svc.CountrySeries(ctx, req.Metric, req.Country)
		if err != nil {
			return nil, err
		}
		return seriesResponse{Type: req.Metric, Country: &code, Data: s}, nil
	}
}

func topEndpoint(svc *dashboard.Service) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*topReq)
		data, err := svc.TopCountries(ctx, req.Metric, req.Limit, req.Year)
		if err != nil {
			return nil, err
		}
		return dataResponse{Data: data}, nil
	}
}

func scatterEndpoint(svc *dashboard.Service) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		data, err := svc.Scatter(ctx, request.(*yearReq).Year)
		if err != nil {
			return nil, err
		}
		return dataResponse{Data: data}, nil
	}
}

func radarEndpoint(svc *dashboard.Service) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		data, err := svc.Radar(ctx, request.(*countriesReq).Countries)
		if err != nil {
			return nil, err
		}
		return dataResponse{Data: data}, nil
	}
}

func compareEndpoint(svc *dashboard.Service) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*countriesReq)
		data, err := svc.Compare(ctx, req.Metric, req.Countries)
		if err != nil {
			return nil, err
		}
		return dataResponse{Data: data}, nil
	}
}

func compareEmissionsEndpoint(svc *dashboard.Service) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		data, err := svc.CompareEmissions(ctx, request.(*countriesReq).Countries)
		if err != nil {
			return nil, err
		}
		return dataResponse{Data: data}, nil
	}
}

func combinedEndpoint(svc *dashboard.Service) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*combinedReq)
		var (
			data any
			err  error
		)
		switch {
		case req.Country != "":
			data, err = svc.CombinedSeries(ctx, req.Country)
		case req.Year != "":
			data, err = svc.CombinedRanking(ctx, req.Year, req.Limit)
		default:
			data, err = svc.CombinedAll(ctx)
		}
		if err != nil {
			return nil, err
		}
		return dataResponse{Data: data}, nil
	}
}

func sectorEndpoint(svc *dashboard.Service) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		data, err := svc.SectorPredictions(ctx, request.(*namesReq).Names)
		if err != nil {
			return nil, err
		}
		return dataResponse{Data: data}, nil
	}
}

func sectorRawEndpoint(svc *dashboard.Service) kit.Endpoint {
	return func(ctx context.Context, _ any) (any, error) {
		data, err := svc.SectorPredictionsRaw(ctx)
		if err != nil {
			return nil, err
		}
		return dataResponse{Data: data}, nil
	}
}

func datasetsEndpoint(catalog *dataset.Catalog) kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		if catalog == nil {
			return dataResponse{Data: []DatasetInfo{}}, nil
		}
		recs, err := catalog.List()
		if err != nil {
			return nil, err
		}
		out := make([]DatasetInfo, 0, len(recs))
		for _, r := range recs {
			out = append(out, datasetInfo(r))
		}
		return dataResponse{Data: out}, nil
	}
}

func datasetInfo(r dataset.Record) DatasetInfo {
	info := DatasetInfo{Name: r.Name, Path: r.Path, Size: r.Size, Rows: r.Rows, Status: "unchecked"}
	if r.Size != nil {
		info.SizeHuman = humanize.Bytes(uint64(*r.Size))
	}
	if r.ModTime != nil {
		mt := time.Unix(*r.ModTime, 0).UTC()
		info.Modified = &mt
	}
	if r.LastStatus != nil {
		info.Status = *r.LastStatus
	}
	if r.LastError != nil {
		info.Error = *r.LastError
	}
	if r.LastCheck != nil {
		info.CheckedAt = humanize.Time(time.Unix(*r.LastCheck, 0))
	}
	return info
}
