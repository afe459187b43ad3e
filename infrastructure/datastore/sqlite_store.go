// Package datastore stores the datasets of a VASP output file in SQLite.
package datastore

import (
	"context"
	"database/sql"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/jrbp/p4vasp/domain/errors"
	"github.com/jrbp/p4vasp/domain/ports"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS datasets (
	path  TEXT PRIMARY KEY,
	value BLOB NOT NULL
)`

// storeConfig holds configuration for the SQLiteStore.
type storeConfig struct {
	readOnly bool // Open with mode=ro, writes fail
	create   bool // Create the file if it does not exist
}

func defaultStoreConfig() storeConfig {
	return storeConfig{}
}

// StoreOption configures a SQLiteStore instance.
type StoreOption func(*storeConfig)

// WithReadOnly opens the database read-only.
func WithReadOnly(enabled bool) StoreOption {
	return func(c *storeConfig) {
		c.readOnly = enabled
	}
}

// WithCreate creates a missing database file instead of failing.
// Ignored for read-only stores.
func WithCreate(enabled bool) StoreOption {
	return func(c *storeConfig) {
		c.create = enabled
	}
}

// SQLiteStore implements ports.DatasetStore on top of a single SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	config storeConfig
}

var _ ports.DatasetStore = (*SQLiteStore)(nil)

// Open opens the dataset file at path.
func Open(ctx context.Context, path string, opts ...StoreOption) (*SQLiteStore, error) {
	cfg := defaultStoreConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.readOnly {
		cfg.create = false
	}

	if _, err := os.Stat(path); err != nil {
		if !stdErrors.Is(err, os.ErrNotExist) {
			return nil, &errors.FileError{Op: "open", Path: path, Err: err}
		}
		if !cfg.create {
			return nil, &errors.FileError{Op: "open", Path: path, Err: errors.ErrNotFound}
		}
	}

	mode := "rw"
	switch {
	case cfg.readOnly:
		mode = "ro"
	case cfg.create:
		mode = "rwc"
	}

	db, err := sql.Open("sqlite", dsn(path, mode))
	if err != nil {
		return nil, &errors.FileError{Op: "open", Path: path, Err: err}
	}
	// One connection keeps writes serialized and the file handle count at one.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, path: path, config: cfg}
	if err := s.init(ctx); err != nil {
		_ = db.Close()
		return nil, &errors.FileError{Op: "open", Path: path, Err: err}
	}
	return s, nil
}

// dsn builds a SQLite URI filename. The path is escaped so that '#', '?'
// and '%' in directory names reach the file system unchanged.
func dsn(path, mode string) string {
	u := &url.URL{Scheme: "file", OmitHost: true, Path: filepath.ToSlash(path), RawQuery: "mode=" + mode}
	return u.String()
}

func (s *SQLiteStore) init(ctx context.Context) error {
	if !s.config.readOnly {
		_, err := s.db.ExecContext(ctx, schema)
		return err
	}

	var name string
	err := s.db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'datasets'").Scan(&name)
	if stdErrors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("not a dataset file")
	}
	return err
}

// Path returns the location of the database file.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Read decodes the dataset at path into dst.
func (s *SQLiteStore) Read(ctx context.Context, path string, dst any) error {
	key := normalize(path)

	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM datasets WHERE path = ?", key).Scan(&value)
	if stdErrors.Is(err, sql.ErrNoRows) {
		return &errors.DatasetError{Path: key, Err: errors.ErrNotFound}
	}
	if err != nil {
		return &errors.FileError{Op: "read", Path: s.path, Err: err}
	}

	if err := json.Unmarshal(value, dst); err != nil {
		return &errors.DatasetError{Path: key, Err: err}
	}
	return nil
}

// Exists reports whether a dataset is stored at path.
func (s *SQLiteStore) Exists(ctx context.Context, path string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM datasets WHERE path = ?", normalize(path)).Scan(&one)
	if stdErrors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, &errors.FileError{Op: "read", Path: s.path, Err: err}
	}
	return true, nil
}

// Write stores value at path, replacing any previous value.
func (s *SQLiteStore) Write(ctx context.Context, path string, value any) error {
	key := normalize(path)
	if key == "" {
		return &errors.DatasetError{Path: path, Err: fmt.Errorf("empty dataset path")}
	}
	if s.config.readOnly {
		return &errors.FileError{Op: "write", Path: s.path, Err: fmt.Errorf("store is read-only")}
	}

	data, err := json.Marshal(value)
	if err != nil {
		return &errors.DatasetError{Path: key, Err: err}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO datasets (path, value) VALUES (?, ?)
		 ON CONFLICT(path) DO UPDATE SET value = excluded.value`, key, data)
	if err != nil {
		return &errors.FileError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

// List returns all dataset paths starting with prefix in lexical order.
func (s *SQLiteStore) List(ctx context.Context, prefix string) ([]string, error) {
	p := strings.TrimPrefix(prefix, "/")
	rows, err := s.db.QueryContext(ctx,
		"SELECT path FROM datasets WHERE substr(path, 1, length(?)) = ? ORDER BY path", p, p)
	if err != nil {
		return nil, &errors.FileError{Op: "read", Path: s.path, Err: err}
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, &errors.FileError{Op: "read", Path: s.path, Err: err}
		}
		paths = append(paths, path)
	}
	if err := rows.Err(); err != nil {
		return nil, &errors.FileError{Op: "read", Path: s.path, Err: err}
	}
	return paths, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return &errors.FileError{Op: "close", Path: s.path, Err: err}
	}
	return nil
}

func normalize(path string) string {
	return strings.Trim(path, "/")
}
