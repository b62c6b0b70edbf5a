package dataset

import (
	"context"
	"log/slog"
	"time"
)

// Checker periodically reads every configured dataset and records whether it
// could be parsed.
type Checker struct {
	store    *Store
	catalog  *Catalog
	logger   *slog.Logger
	interval time.Duration
}

// NewChecker creates a Checker that verifies the datasets every interval.
func NewChecker(store *Store, catalog *Catalog, logger *slog.Logger, interval time.Duration) *Checker {
	return &Checker{
		store:    store,
		catalog:  catalog,
		logger:   logger,
		interval: interval,
	}
}

// Start runs an immediate check then repeats every interval until ctx is
// cancelled. A non-positive interval checks once.
func (c *Checker) Start(ctx context.Context) {
	c.CheckAll(ctx)
	if c.interval <= 0 {
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.CheckAll(ctx)
		}
	}
}

// CheckAll reads every dataset and persists the result. It returns the
// number of readable and unreadable datasets.
func (c *Checker) CheckAll(ctx context.Context) (ok, failed int) {
	for _, name := range c.store.Names() {
		if ctx.Err() != nil {
			return ok, failed
		}

		chk := c.checkOne(ctx, name)
		if err := c.catalog.Record(name, chk); err != nil {
			c.logger.Error("dataset check: record failed", "dataset", name, "error", err)
		}

		if chk.Err == nil {
			ok++
			continue
		}
		failed++
		c.logger.Warn("dataset unreadable", "dataset", name, "error", chk.Err)
	}

	c.logger.Info("dataset check complete", "total", ok+failed, "ok", ok, "failed", failed)
	return ok, failed
}

func (c *Checker) checkOne(ctx context.Context, name string) Check {
	fi, err := c.store.Stat(name)
	if err != nil {
		return Check{Err: err}
	}
	ds, err := c.store.Load(ctx, name)
	if err != nil {
		return Check{Err: err}
	}
	return Check{Size: fi.Size(), ModTime: fi.ModTime(), Rows: ds.Len()}
}
