// Package rawfile reads and writes VASP output files.
//
// A file is a dataset store whose paths follow the layout VASP uses for its
// HDF5 output (results/electron_dos/efermi, input/kpoints/number_kpoints, ...).
// Every accessor reads its datasets lazily from the open store.
package rawfile

import (
	"context"
	stdErrors "errors"
	"os"
	"path/filepath"

	"github.com/jrbp/p4vasp/domain/entities"
	"github.com/jrbp/p4vasp/domain/errors"
	"github.com/jrbp/p4vasp/domain/ports"
	"github.com/jrbp/p4vasp/infrastructure/datastore"
)

// DefaultFilename is the name VASP output files have inside a calculation directory.
const DefaultFilename = "vaspout.db"

// Dataset paths.
const (
	versionMajor = "version/major"
	versionMinor = "version/minor"
	versionPatch = "version/patch"

	dosFermiEnergy = "results/electron_dos/efermi"
	dosEnergies    = "results/electron_dos/energies"
	dosValues      = "results/electron_dos/dos"
	dosProjections = "results/electron_dos/dospar"

	ionTypeCounts = "results/positions/number_ion_types"
	ionTypes      = "results/positions/ion_types"
	orbitalTypes  = "results/projectors/lchar"
	numberSpins   = "results/electron_eigenvalues/ispin"

	bandKpoints     = "results/electron_eigenvalues/kpoint_coords"
	bandEigenvalues = "results/electron_eigenvalues/eigenvalues"
	bandLineLength  = "input/kpoints/number_kpoints"
	bandLabelIndex  = "input/kpoints/positions_labels_kpoints"
	bandLabels      = "input/kpoints/labels_kpoints"
	bandProjections = "results/projectors/par"

	cellScale   = "results/positions/scale"
	cellLattice = "results/positions/lattice_vectors"
)

// File is an open VASP output file.
type File struct {
	store ports.DatasetStore
	path  string
}

var _ ports.RawFile = (*File)(nil)

// Resolve maps the user-facing path onto the dataset file it refers to:
// "" is the default file in the working directory and a directory is the
// default file inside it.
func Resolve(path string) string {
	if path == "" {
		return DefaultFilename
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, DefaultFilename)
	}
	return path
}

// Open opens an existing output file read-only.
func Open(ctx context.Context, path string) (*File, error) {
	resolved := Resolve(path)
	store, err := datastore.Open(ctx, resolved, datastore.WithReadOnly(true))
	if err != nil {
		return nil, err
	}
	return &File{store: store, path: resolved}, nil
}

// Create opens an output file for writing, creating it if needed.
func Create(ctx context.Context, path string) (*File, error) {
	resolved := Resolve(path)
	store, err := datastore.Open(ctx, resolved, datastore.WithCreate(true))
	if err != nil {
		return nil, err
	}
	return &File{store: store, path: resolved}, nil
}

// New wraps an already open dataset store.
func New(store ports.DatasetStore, path string) *File {
	return &File{store: store, path: path}
}

// Path returns the location of the file.
func (f *File) Path() string {
	return f.path
}

// String renders the file the way it was opened.
func (f *File) String() string {
	return f.path
}

// Store exposes the underlying dataset store.
func (f *File) Store() ports.DatasetStore {
	return f.store
}

// Close releases the underlying store.
func (f *File) Close() error {
	return f.store.Close()
}

// Version returns the VASP version that wrote the file.
// Files without version datasets report the zero version.
func (f *File) Version(ctx context.Context) (entities.RawVersion, error) {
	var v entities.RawVersion
	if _, err := f.optional(ctx, versionMajor, &v.Major); err != nil {
		return v, err
	}
	if _, err := f.optional(ctx, versionMinor, &v.Minor); err != nil {
		return v, err
	}
	if _, err := f.optional(ctx, versionPatch, &v.Patch); err != nil {
		return v, err
	}
	return v, nil
}

// Dos reads the density of states.
func (f *File) Dos(ctx context.Context) (*entities.Dos, error) {
	dos := &entities.Dos{}
	found, err := f.optional(ctx, dosFermiEnergy, &dos.FermiEnergy)
	if err != nil || !found {
		return nil, err
	}
	if dos.Version, err = f.Version(ctx); err != nil {
		return nil, err
	}
	if err := f.required(ctx, dosEnergies, &dos.Energies); err != nil {
		return nil, err
	}
	if err := f.required(ctx, dosValues, &dos.Dos); err != nil {
		return nil, err
	}
	if dos.Projectors, err = f.Projectors(ctx); err != nil {
		return nil, err
	}
	if _, err := f.optional(ctx, dosProjections, &dos.Projections); err != nil {
		return nil, err
	}
	return dos, nil
}

// Band reads the band structure.
func (f *File) Band(ctx context.Context) (*entities.Band, error) {
	band := &entities.Band{}
	found, err := f.optional(ctx, bandEigenvalues, &band.Eigenvalues)
	if err != nil || !found {
		return nil, err
	}
	if band.Version, err = f.Version(ctx); err != nil {
		return nil, err
	}
	if err := f.required(ctx, dosFermiEnergy, &band.FermiEnergy); err != nil {
		return nil, err
	}
	if err := f.required(ctx, bandKpoints, &band.Kpoints); err != nil {
		return nil, err
	}
	if err := f.required(ctx, bandLineLength, &band.LineLength); err != nil {
		return nil, err
	}
	cell, err := f.Cell(ctx)
	if err != nil {
		return nil, err
	}
	if cell == nil {
		return nil, &errors.DatasetError{Path: cellScale, Err: errors.ErrNotFound}
	}
	band.Cell = *cell
	if _, err := f.optional(ctx, bandLabelIndex, &band.LabelIndices); err != nil {
		return nil, err
	}
	if _, err := f.optional(ctx, bandLabels, &band.Labels); err != nil {
		return nil, err
	}
	if band.Projectors, err = f.Projectors(ctx); err != nil {
		return nil, err
	}
	if _, err := f.optional(ctx, bandProjections, &band.Projections); err != nil {
		return nil, err
	}
	return band, nil
}

// Projectors reads the projector description.
func (f *File) Projectors(ctx context.Context) (*entities.Projectors, error) {
	proj := &entities.Projectors{}
	found, err := f.optional(ctx, orbitalTypes, &proj.OrbitalTypes)
	if err != nil || !found {
		return nil, err
	}
	if proj.Version, err = f.Version(ctx); err != nil {
		return nil, err
	}
	if err := f.required(ctx, ionTypeCounts, &proj.NumberIonTypes); err != nil {
		return nil, err
	}
	if err := f.required(ctx, ionTypes, &proj.IonTypes); err != nil {
		return nil, err
	}
	if err := f.required(ctx, numberSpins, &proj.NumberSpins); err != nil {
		return nil, err
	}
	return proj, nil
}

// Cell reads the unit cell.
func (f *File) Cell(ctx context.Context) (*entities.Cell, error) {
	cell := &entities.Cell{}
	found, err := f.optional(ctx, cellScale, &cell.Scale)
	if err != nil || !found {
		return nil, err
	}
	if cell.Version, err = f.Version(ctx); err != nil {
		return nil, err
	}
	if err := f.required(ctx, cellLattice, &cell.LatticeVectors); err != nil {
		return nil, err
	}
	return cell, nil
}

func (f *File) required(ctx context.Context, path string, dst any) error {
	return f.store.Read(ctx, path, dst)
}

// optional reads a dataset that may be absent; found is false in that case.
func (f *File) optional(ctx context.Context, path string, dst any) (found bool, err error) {
	err = f.store.Read(ctx, path, dst)
	if stdErrors.Is(err, errors.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Opener implements ports.FileOpener with Open.
type Opener struct{}

// Open implements ports.FileOpener.
func (Opener) Open(ctx context.Context, path string) (ports.RawFile, error) {
	f, err := Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return f, nil
}
