package data

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jrbp/p4vasp/domain/errors"
	"github.com/jrbp/p4vasp/domain/ports"
	"github.com/jrbp/p4vasp/infrastructure/rawfile"
)

type sourceKind int

const (
	defaultSource sourceKind = iota
	pathSource
	openedSource
)

// Source describes where a data wrapper reads its raw data from.
type Source struct {
	kind sourceKind
	path string
	file ports.RawFile
}

// DefaultFile selects the default output file in the working directory.
func DefaultFile() Source {
	return Source{kind: defaultSource}
}

// FilePath selects the output file at path, or the default file inside path
// if it is a directory. An empty path is the default file.
func FilePath(path string) Source {
	if path == "" {
		return DefaultFile()
	}
	return Source{kind: pathSource, path: path}
}

// OpenedFile borrows an already open file. The wrapper never closes it.
// A nil file fails on every access.
func OpenedFile(f ports.RawFile) Source {
	return Source{kind: openedSource, file: f}
}

// Path returns the path the source refers to, "" for the default file.
func (s Source) Path() string {
	switch s.kind {
	case pathSource:
		return s.path
	case openedSource:
		if s.file == nil {
			return ""
		}
		return s.file.Path()
	default:
		return ""
	}
}

// String names the file for messages.
func (s Source) String() string {
	if s.kind == defaultSource {
		return rawfile.DefaultFilename
	}
	return s.Path()
}

// Dir returns the directory the source lives in.
func (s Source) Dir() string {
	p := s.Path()
	if p == "" {
		return "."
	}
	if info, err := os.Stat(p); err == nil && info.IsDir() {
		return p
	}
	return filepath.Dir(p)
}

// access acquires the file, runs fn and releases the file again on every path
// out of access. Borrowed files are passed through untouched.
func (s Source) access(ctx context.Context, cfg baseConfig, fn func(ports.RawFile) error) (err error) {
	if s.kind == openedSource {
		if s.file == nil {
			return &errors.FileError{Op: "open", Err: fmt.Errorf("no file handle")}
		}
		return fn(s.file)
	}

	f, err := cfg.opener.Open(ctx, s.path)
	if err != nil {
		return err
	}
	cfg.logger.DebugContext(ctx, "acquired raw file", "path", f.Path())

	defer func() {
		cerr := f.Close()
		cfg.logger.DebugContext(ctx, "released raw file", "path", f.Path())
		if err == nil {
			err = cerr
		}
	}()

	return fn(f)
}
