// CLAUDE:SUMMARY Echo router exposing the dashboard queries as JSON endpoints with ETags, request ids, slog request logs and Prometheus metrics.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/zeebo/xxh3"

	"github.com/hazyhaar/climate-dashboard/pkg/dashboard"
	"github.com/hazyhaar/climate-dashboard/pkg/dataset"
	"github.com/hazyhaar/climate-dashboard/pkg/kit"
	"github.com/hazyhaar/climate-dashboard/pkg/metrics"
)

// Options wires the router to its collaborators. Catalog and Metrics may be nil.
type Options struct {
	Service *dashboard.Service
	Catalog *dataset.Catalog
	Logger  *slog.Logger
	Metrics *metrics.Recorder
}

// NewRouter returns an echo instance serving every dashboard route.
func NewRouter(opts Options) *echo.Echo {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			ctx := kit.WithRequestID(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))
		},
	}))
	e.Use(requestLogger(logger))
	e.Use(observe(opts.Metrics))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", "If-None-Match"},
	}))

	h := &handler{ep: newEndpoints(opts.Service, opts.Catalog, logger)}

	api := e.Group("/api")
	api.GET("/data", h.handleData)
	api.GET("/data/top", h.handleTop)
	api.GET("/data/scatter", h.handleScatter)
	api.GET("/data/radar", h.handleRadar)
	api.GET("/data/compare", h.handleCompare)
	api.GET("/data/compare-emissions", h.handleCompareEmissions)
	api.GET("/data/combined-emissions", h.handleCombined)
	api.GET("/data/sector-emissions", h.handleSector)
	api.GET("/data/sector-emissions-predictions", h.handleSectorRaw)
	api.GET("/datasets", h.handleDatasets)
	api.GET("/health", h.handleHealth)

	e.GET("/metrics", echo.WrapHandler(opts.Metrics.Handler()))

	return e
}

type handler struct {
	ep *endpoints
}

// --- dashboard queries ---

func (h *handler) handleData(c echo.Context) error {
	if c.QueryParam("list") == "countries" {
		return h.serve(c, h.ep.countries, nil)
	}
	metric := c.QueryParam("type")
	if metric == "" {
		metric = string(dashboard.GDP)
	}
	m, err := dashboard.ParseMetric(metric)
	if err != nil {
		return err
	}
	return h.serve(c, h.ep.series, &seriesReq{Metric: m, Country: c.QueryParam("country")})
}

func (h *handler) handleTop(c echo.Context) error {
	limit, err := parseLimit(c)
	if err != nil {
		return err
	}
	return h.serve(c, h.ep.top, &topReq{
		Metric: dashboard.Metric(c.QueryParam("type")),
		Limit:  limit,
		Year:   c.QueryParam("year"),
	})
}

func (h *handler) handleScatter(c echo.Context) error {
	return h.serve(c, h.ep.scatter, &yearReq{Year: c.QueryParam("year")})
}

func (h *handler) handleRadar(c echo.Context) error {
	return h.serve(c, h.ep.radar, &countriesReq{Countries: dashboard.SplitList(c.QueryParam("countries"))})
}

func (h *handler) handleCompare(c echo.Context) error {
	return h.serve(c, h.ep.compare, &countriesReq{
		Metric:    dashboard.Metric(c.QueryParam("type")),
		Countries: dashboard.SplitList(c.QueryParam("countries")),
	})
}

func (h *handler) handleCompareEmissions(c echo.Context) error {
	return h.serve(c, h.ep.compareEmissions, &countriesReq{Countries: dashboard.SplitList(c.QueryParam("countries"))})
}

func (h *handler) handleCombined(c echo.Context) error {
	limit, err := parseLimit(c)
	if err != nil {
		return err
	}
	return h.serve(c, h.ep.combined, &combinedReq{
		Country: c.QueryParam("country"),
		Year:    c.QueryParam("year"),
		Limit:   limit,
	})
}

func (h *handler) handleSector(c echo.Context) error {
	return h.serve(c, h.ep.sector, &namesReq{Names: dashboard.SplitList(c.QueryParam("countries"))})
}

func (h *handler) handleSectorRaw(c echo.Context) error {
	return h.serve(c, h.ep.sectorRaw, nil)
}

func (h *handler) handleDatasets(c echo.Context) error {
	return h.serve(c, h.ep.datasets, nil)
}

// --- health ---

type healthResponse struct {
	Status string `json:"status"`
}

func (h *handler) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{Status: "ok"})
}

// --- helpers ---

// serve runs an endpoint and writes its response, or returns the error for
// the error handler.
func (h *handler) serve(c echo.Context, ep kit.Endpoint, req any) error {
	resp, err := ep(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return writeJSON(c, http.StatusOK, resp)
}

// parseLimit reads the optional positive limit parameter; absent means 0.
func parseLimit(c echo.Context) (int, error) {
	raw := c.QueryParam("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, &dashboard.Error{Kind: dashboard.ErrInvalid, Msg: fmt.Sprintf("Invalid limit %q", raw)}
	}
	return n, nil
}

// writeJSON writes v with a content hash ETag and answers 304 when the client
// already holds that representation.
func writeJSON(c echo.Context, code int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	etag := fmt.Sprintf(`"%016x"`, xxh3.Hash(body))
	c.Response().Header().Set("ETag", etag)
	if code == http.StatusOK && c.Request().Header.Get("If-None-Match") == etag {
		return c.NoContent(http.StatusNotModified)
	}
	return c.JSONBlob(code, body)
}

type errorResponse struct {
	Error string `json:"error"`
	Data  []any  `json:"data"`
}

// errorHandler renders every failure as {"error": ..., "data": []}.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code, msg := classify(err)
		if code == http.StatusInternalServerError && !errors.Is(err, errInternal) {
			logger.ErrorContext(c.Request().Context(), "request failed",
				"request_id", kit.GetRequestID(c.Request().Context()),
				"uri", c.Request().RequestURI,
				"error", err,
			)
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, errorResponse{Error: msg, Data: []any{}})
		}
		if err != nil {
			logger.Error("write error response", "error", err)
		}
	}
}

func classify(err error) (int, string) {
	var he *echo.HTTPError
	switch {
	case errors.Is(err, dashboard.ErrInvalid):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, dashboard.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.As(err, &he) && he.Code < http.StatusInternalServerError:
		return he.Code, fmt.Sprint(he.Message)
	default:
		return http.StatusInternalServerError, internalMessage
	}
}

// requestLogger writes one slog line per request.
func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			)
			return nil
		},
	})
}

// observe counts requests per route template.
func observe(rec *metrics.Recorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if err != nil {
				status, _ = classify(err)
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			rec.ObserveRequest(route, status, time.Since(start))
			return err
		}
	}
}
