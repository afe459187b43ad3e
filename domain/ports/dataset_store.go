package ports

import "context"

// DatasetStore persists values under slash-separated hierarchical paths,
// e.g. "results/electron_dos/efermi".
type DatasetStore interface {
	// Read decodes the dataset at path into dst.
	// Returns a *errors.DatasetError wrapping errors.ErrNotFound if it does not exist.
	Read(ctx context.Context, path string, dst any) error

	// Exists reports whether a dataset is stored at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Write stores value at path, replacing any previous value.
	Write(ctx context.Context, path string, value any) error

	// List returns all dataset paths starting with prefix in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)

	// Close releases the store.
	Close() error
}
