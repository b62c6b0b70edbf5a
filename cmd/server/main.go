// CLAUDE:SUMMARY climate-dashboard CLI: serve the JSON API (HTTP, HTTP/3, MCP over QUIC), serve MCP on stdio, list datasets, call a tool remotely.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hazyhaar/climate-dashboard/pkg/api"
	"github.com/hazyhaar/climate-dashboard/pkg/chassis"
	"github.com/hazyhaar/climate-dashboard/pkg/dashboard"
	"github.com/hazyhaar/climate-dashboard/pkg/dataset"
	"github.com/hazyhaar/climate-dashboard/pkg/mcpquic"
	"github.com/hazyhaar/climate-dashboard/pkg/metrics"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = cmdServe(os.Args[2:])
	case "mcp":
		err = cmdMCP(os.Args[2:])
	case "datasets":
		err = cmdDatasets(os.Args[2:])
	case "call":
		err = cmdCall(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "climate-dashboard %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: climate-dashboard <command> [flags]

Commands:
  serve      Start the API server
  mcp        Serve the MCP tools on stdin/stdout
  datasets   Check every dataset file and print its status
  call       Call an MCP tool on a running server over QUIC
`)
}

// app holds the components shared by every command.
type app struct {
	cfg     config
	logger  *slog.Logger
	metrics *metrics.Recorder
	store   *dataset.Store
	catalog *dataset.Catalog
	svc     *dashboard.Service
}

func newApp(cfgPath string) (*app, error) {
	cfg, found, err := loadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)
	if !found {
		logger.Info("no config file, using defaults", "path", cfgPath)
	}

	rec, err := metrics.New()
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	store := dataset.NewStore(dataset.Options{
		Dir:      cfg.DataDir,
		Files:    cfg.Files.Map(),
		Encoding: cfg.Encoding,
		Cache:    cfg.Cache,
		Logger:   logger,
		Metrics:  rec,
	})

	a := &app{cfg: cfg, logger: logger, metrics: rec, store: store, svc: dashboard.New(cfg.Config, store)}
	if cfg.CatalogDB != "" {
		cat, err := dataset.OpenCatalog(cfg.CatalogDB)
		if err != nil {
			return nil, err
		}
		if err := cat.Seed(store); err != nil {
			cat.Close()
			return nil, err
		}
		a.catalog = cat
	}
	return a, nil
}

func (a *app) close() {
	if a.catalog != nil {
		a.catalog.Close()
	}
}

func (a *app) mcpServer() *server.MCPServer {
	srv := server.NewMCPServer("climate-dashboard", version, server.WithToolCapabilities(false))
	api.RegisterMCPTools(srv, a.svc, a.catalog, a.logger)
	return srv
}

func cmdServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	a, err := newApp(*cfgPath)
	if err != nil {
		return err
	}
	defer a.close()
	logger := a.logger

	router := api.NewRouter(api.Options{
		Service: a.svc,
		Catalog: a.catalog,
		Logger:  logger,
		Metrics: a.metrics,
	})

	ccfg := chassis.Config{
		Addr:     a.cfg.Addr,
		Plain:    !a.cfg.TLS.Enabled,
		CertFile: a.cfg.TLS.CertFile,
		KeyFile:  a.cfg.TLS.KeyFile,
		Handler:  router,
		Logger:   logger,
	}
	if a.cfg.MCP {
		ccfg.MCPServer = a.mcpServer()
	}
	srv, err := chassis.New(ccfg)
	if err != nil {
		return err
	}

	// SIGINT/SIGTERM: graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var checker *dataset.Checker
	if a.catalog != nil {
		checker = dataset.NewChecker(a.store, a.catalog, logger, a.cfg.CheckInterval)
		go checker.Start(ctx)
	}

	// SIGHUP: drop cached datasets and re-check the files.
	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	defer signal.Stop(sighup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-sighup:
				logger.Info("SIGHUP received, reloading datasets")
				a.store.Reset()
				if checker != nil {
					ok, failed := checker.CheckAll(ctx)
					logger.Info("datasets reloaded", "ok", ok, "failed", failed)
				}
			}
		}
	}()

	if err := srv.Start(ctx); err != nil {
		return err
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}

func cmdMCP(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	a, err := newApp(*cfgPath)
	if err != nil {
		return err
	}
	defer a.close()
	return server.ServeStdio(a.mcpServer())
}

func cmdDatasets(args []string) error {
	fs := flag.NewFlagSet("datasets", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	a, err := newApp(*cfgPath)
	if err != nil {
		return err
	}
	defer a.close()
	if a.catalog == nil {
		return fmt.Errorf("catalog_db is not configured")
	}

	ok, failed := dataset.NewChecker(a.store, a.catalog, a.logger, 0).CheckAll(context.Background())
	recs, err := a.catalog.List()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATASET\tFILE\tSIZE\tROWS\tMODIFIED\tSTATUS")
	for _, r := range recs {
		size, rows, modified, status := "-", "-", "-", "unchecked"
		if r.Size != nil {
			size = humanize.Bytes(uint64(*r.Size))
		}
		if r.Rows != nil {
			rows = humanize.Comma(int64(*r.Rows))
		}
		if r.ModTime != nil {
			modified = humanize.Time(time.Unix(*r.ModTime, 0))
		}
		if r.LastStatus != nil {
			status = *r.LastStatus
		}
		if r.LastError != nil {
			status += ": " + *r.LastError
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Name, r.Path, size, rows, modified, status)
	}
	tw.Flush()
	fmt.Printf("\n%d ok, %d failed\n", ok, failed)
	if failed > 0 {
		return fmt.Errorf("%d dataset(s) unreadable", failed)
	}
	return nil
}

func cmdCall(args []string) error {
	fs := flag.NewFlagSet("call", flag.ExitOnError)
	addr := fs.String("addr", "localhost:3001", "server address (QUIC)")
	insecure := fs.Bool("insecure", true, "accept a self-signed certificate")
	timeout := fs.Duration("timeout", 30*time.Second, "call timeout")
	fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("usage: climate-dashboard call [flags] <tool> [key=value ...]")
	}
	toolArgs, err := parseToolArgs(fs.Args()[1:])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c := mcpquic.NewClient(*addr, mcpquic.ClientTLSConfig(*insecure))
	if err := c.Connect(ctx, "climate-dashboard-cli", version); err != nil {
		return err
	}
	defer c.Close()

	res, err := c.CallTool(ctx, fs.Arg(0), toolArgs)
	if err != nil {
		return err
	}
	for _, content := range res.Content {
		if text, ok := mcp.AsTextContent(content); ok {
			fmt.Println(text.Text)
		}
	}
	if res.IsError {
		return fmt.Errorf("tool %s failed", fs.Arg(0))
	}
	return nil
}

// parseToolArgs turns key=value pairs into tool arguments.
func parseToolArgs(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("argument %q: want key=value", p)
		}
		out[k] = v
	}
	return out, nil
}
