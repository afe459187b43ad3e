package ports

import (
	"context"

	"github.com/jrbp/p4vasp/domain/entities"
)

// RawFile is an open VASP output file.
// Accessors return (nil, nil) when the quantity was not written to the file.
type RawFile interface {
	// Path returns the location of the file on disk.
	Path() string

	// Version returns the VASP version that wrote the file.
	Version(ctx context.Context) (entities.RawVersion, error)

	Dos(ctx context.Context) (*entities.Dos, error)
	Band(ctx context.Context) (*entities.Band, error)
	Projectors(ctx context.Context) (*entities.Projectors, error)
	Cell(ctx context.Context) (*entities.Cell, error)

	// Close releases the underlying storage.
	Close() error
}

// FileOpener opens RawFiles.
type FileOpener interface {
	// Open opens the file at path. An empty path selects the default file
	// in the working directory, a directory selects the default file inside it.
	Open(ctx context.Context, path string) (RawFile, error)
}
