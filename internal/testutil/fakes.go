package testutil

import (
	"context"
	"sync"

	"github.com/jrbp/p4vasp/domain/entities"
	"github.com/jrbp/p4vasp/domain/ports"
)

// FakeFile is an in-memory ports.RawFile that records how it is used.
type FakeFile struct {
	PathValue      string
	VersionData    entities.RawVersion
	DosData        *entities.Dos
	BandData       *entities.Band
	ProjectorsData *entities.Projectors
	CellData       *entities.Cell

	// Err is returned by every accessor when set.
	Err error
	// CloseErr is returned by Close when set.
	CloseErr error

	mu     sync.Mutex
	reads  []string
	closes int
}

var _ ports.RawFile = (*FakeFile)(nil)

// Reads returns the accessors called so far, in order.
func (f *FakeFile) Reads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.reads...)
}

// Closes returns how often Close was called.
func (f *FakeFile) Closes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes
}

func (f *FakeFile) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads = append(f.reads, name)
}

func (f *FakeFile) Path() string { return f.PathValue }

func (f *FakeFile) Version(context.Context) (entities.RawVersion, error) {
	f.record("version")
	return f.VersionData, f.Err
}

func (f *FakeFile) Dos(context.Context) (*entities.Dos, error) {
	f.record("dos")
	return f.DosData, f.Err
}

func (f *FakeFile) Band(context.Context) (*entities.Band, error) {
	f.record("band")
	return f.BandData, f.Err
}

func (f *FakeFile) Projectors(context.Context) (*entities.Projectors, error) {
	f.record("projectors")
	return f.ProjectorsData, f.Err
}

func (f *FakeFile) Cell(context.Context) (*entities.Cell, error) {
	f.record("cell")
	return f.CellData, f.Err
}

func (f *FakeFile) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	return f.CloseErr
}

// FakeOpener is a ports.FileOpener handing out the same FakeFile on every Open.
type FakeOpener struct {
	File *FakeFile
	// Err is returned by Open when set.
	Err error

	mu    sync.Mutex
	paths []string
}

var _ ports.FileOpener = (*FakeOpener)(nil)

// NewFakeOpener returns an opener for file.
func NewFakeOpener(file *FakeFile) *FakeOpener {
	return &FakeOpener{File: file}
}

// Open records path and returns the fake file.
func (o *FakeOpener) Open(_ context.Context, path string) (ports.RawFile, error) {
	o.mu.Lock()
	o.paths = append(o.paths, path)
	o.mu.Unlock()

	if o.Err != nil {
		return nil, o.Err
	}
	return o.File, nil
}

// Paths returns the path argument of every Open call, in order.
func (o *FakeOpener) Paths() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.paths...)
}

// Opens returns how often Open was called.
func (o *FakeOpener) Opens() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.paths)
}
