// CLAUDE:SUMMARY Named dataset files under a data directory, parsed on demand with an opt-in (path, mtime, size) cache.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/hazyhaar/climate-dashboard/pkg/metrics"
	"github.com/hazyhaar/climate-dashboard/pkg/table"
)

// ErrUnknown is returned for a dataset name that is not configured.
var ErrUnknown = errors.New("unknown dataset")

// Options configures a Store.
type Options struct {
	Dir      string            // base directory for relative paths
	Files    map[string]string // dataset name -> file path
	Encoding string            // source encoding, empty means UTF-8
	Cache    bool              // keep parsed files until they change on disk
	Logger   *slog.Logger
	Metrics  *metrics.Recorder
}

type entry struct {
	modTime time.Time
	size    int64
	ds      *table.DataSet
}

// Store resolves dataset names to files and parses them. Without the cache
// every Load reads the file again. Returned DataSets are shared and must not
// be modified.
type Store struct {
	dir      string
	files    map[string]string
	encoding string
	cache    bool
	logger   *slog.Logger
	metrics  *metrics.Recorder

	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]entry // keyed by absolute path
}

// NewStore copies the file table from opts.
func NewStore(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	files := make(map[string]string, len(opts.Files))
	for k, v := range opts.Files {
		files[k] = v
	}
	return &Store{
		dir:      opts.Dir,
		files:    files,
		encoding: opts.Encoding,
		cache:    opts.Cache,
		logger:   logger,
		metrics:  opts.Metrics,
		entries:  make(map[string]entry),
	}
}

// Names returns the configured dataset names, sorted.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.files))
	for n := range s.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Path returns the file backing name.
func (s *Store) Path(name string) (string, error) {
	p, ok := s.files[name]
	if !ok || p == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	if !filepath.IsAbs(p) && s.dir != "" {
		p = filepath.Join(s.dir, p)
	}
	return p, nil
}

// Stat reports the file info of the file backing name.
func (s *Store) Stat(name string) (os.FileInfo, error) {
	p, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	return os.Stat(p)
}

// Load returns the parsed dataset called name.
func (s *Store) Load(ctx context.Context, name string) (*table.DataSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	if !s.cache {
		return s.parse(name, path)
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", name, err)
	}
	s.mu.RLock()
	e, ok := s.entries[path]
	s.mu.RUnlock()
	if ok && e.modTime.Equal(fi.ModTime()) && e.size == fi.Size() {
		s.metrics.CacheResult(true)
		return e.ds, nil
	}
	s.metrics.CacheResult(false)

	v, err, _ := s.group.Do(path, func() (any, error) {
		ds, err := s.parse(name, path)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.entries[path] = entry{modTime: fi.ModTime(), size: fi.Size(), ds: ds}
		s.mu.Unlock()
		return ds, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*table.DataSet), nil
}

func (s *Store) parse(name, path string) (*table.DataSet, error) {
	start := time.Now()
	ds, err := table.ReadFile(path, table.Options{Encoding: s.encoding})
	elapsed := time.Since(start)
	if err != nil {
		s.metrics.ObserveParse(name, 0, err, elapsed)
		return nil, fmt.Errorf("dataset %s: %w", name, err)
	}
	s.metrics.ObserveParse(name, ds.Len(), nil, elapsed)
	s.logger.Debug("dataset parsed", "dataset", name, "rows", ds.Len(), "elapsed", elapsed)
	return ds, nil
}

// Reset drops every cached dataset.
func (s *Store) Reset() {
	s.mu.Lock()
	n := len(s.entries)
	s.entries = make(map[string]entry)
	s.mu.Unlock()
	if n > 0 {
		s.logger.Info("dataset cache cleared", "entries", n)
	}
}
