package dataset

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Record is a row of the datasets table.
type Record struct {
	Name       string
	Path       string
	Size       *int64
	ModTime    *int64
	Rows       *int
	LastCheck  *int64
	LastStatus *string
	LastError  *string
	UpdatedAt  int64
}

// Check is the outcome of reading one dataset.
type Check struct {
	Size    int64
	ModTime time.Time
	Rows    int
	Err     error
}

// Catalog persists dataset availability in SQLite.
type Catalog struct {
	db *sql.DB
}

// OpenCatalog opens (or creates) the SQLite database at path and ensures the
// datasets table exists.
func OpenCatalog(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	const ddl = `CREATE TABLE IF NOT EXISTS datasets (
		name         TEXT PRIMARY KEY,
		path         TEXT NOT NULL,
		size         INTEGER,
		mod_time     INTEGER,
		row_count    INTEGER,
		last_check   INTEGER,
		last_status  TEXT,
		last_error   TEXT,
		updated_at   INTEGER NOT NULL
	)`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create datasets table: %w", err)
	}

	return &Catalog{db: db}, nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Seed inserts one row per configured dataset. The path of an existing row
// follows the configuration; its check history is kept.
func (c *Catalog) Seed(s *Store) error {
	const q = `INSERT INTO datasets (name, path, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			path = excluded.path,
			updated_at = CASE WHEN datasets.path = excluded.path THEN datasets.updated_at ELSE excluded.updated_at END`

	now := time.Now().Unix()
	for _, name := range s.Names() {
		path, err := s.Path(name)
		if err != nil {
			return err
		}
		if _, err := c.db.Exec(q, name, path, now); err != nil {
			return fmt.Errorf("seed %s: %w", name, err)
		}
	}
	return nil
}

// Record persists the result of a check.
func (c *Catalog) Record(name string, chk Check) error {
	now := time.Now().Unix()
	var err error
	if chk.Err != nil {
		msg := chk.Err.Error()
		_, err = c.db.Exec(
			`UPDATE datasets SET last_check = ?, last_status = 'error', last_error = ? WHERE name = ?`,
			now, msg, name,
		)
	} else {
		_, err = c.db.Exec(
			`UPDATE datasets SET size = ?, mod_time = ?, row_count = ?,
				last_check = ?, last_status = 'ok', last_error = NULL WHERE name = ?`,
			chk.Size, chk.ModTime.Unix(), chk.Rows, now, name,
		)
	}
	if err != nil {
		return fmt.Errorf("record check for %s: %w", name, err)
	}
	return nil
}

const selectRecord = `SELECT name, path, size, mod_time, row_count,
	last_check, last_status, last_error, updated_at FROM datasets`

func scanRecord(sc interface{ Scan(...any) error }) (Record, error) {
	var r Record
	err := sc.Scan(&r.Name, &r.Path, &r.Size, &r.ModTime, &r.Rows,
		&r.LastCheck, &r.LastStatus, &r.LastError, &r.UpdatedAt)
	return r, err
}

// Get returns the row for name.
func (c *Catalog) Get(name string) (Record, error) {
	r, err := scanRecord(c.db.QueryRow(selectRecord+` WHERE name = ?`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get dataset %s: %w", name, err)
	}
	return r, nil
}

// List returns all rows ordered by name.
func (c *Catalog) List() ([]Record, error) {
	rows, err := c.db.Query(selectRecord + ` ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
