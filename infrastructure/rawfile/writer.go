package rawfile

import (
	"context"

	"github.com/jrbp/p4vasp/domain/entities"
)

// WriteVersion records the VASP version that produced the file.
func (f *File) WriteVersion(ctx context.Context, v entities.RawVersion) error {
	return f.write(ctx, map[string]any{
		versionMajor: v.Major,
		versionMinor: v.Minor,
		versionPatch: v.Patch,
	})
}

// WriteDos stores the density of states and, if present, its projectors.
func (f *File) WriteDos(ctx context.Context, dos *entities.Dos) error {
	if err := f.write(ctx, map[string]any{
		dosFermiEnergy: dos.FermiEnergy,
		dosEnergies:    dos.Energies,
		dosValues:      dos.Dos,
	}); err != nil {
		return err
	}
	if dos.Projectors != nil {
		if err := f.WriteProjectors(ctx, dos.Projectors); err != nil {
			return err
		}
	}
	if dos.Projections != nil {
		return f.store.Write(ctx, dosProjections, dos.Projections)
	}
	return nil
}

// WriteBand stores the band structure together with its cell.
func (f *File) WriteBand(ctx context.Context, band *entities.Band) error {
	if err := f.write(ctx, map[string]any{
		dosFermiEnergy:  band.FermiEnergy,
		bandKpoints:     band.Kpoints,
		bandEigenvalues: band.Eigenvalues,
		bandLineLength:  band.LineLength,
	}); err != nil {
		return err
	}
	if err := f.WriteCell(ctx, &band.Cell); err != nil {
		return err
	}
	if band.LabelIndices != nil {
		if err := f.store.Write(ctx, bandLabelIndex, band.LabelIndices); err != nil {
			return err
		}
	}
	if band.Labels != nil {
		if err := f.store.Write(ctx, bandLabels, band.Labels); err != nil {
			return err
		}
	}
	if band.Projectors != nil {
		if err := f.WriteProjectors(ctx, band.Projectors); err != nil {
			return err
		}
	}
	if band.Projections != nil {
		return f.store.Write(ctx, bandProjections, band.Projections)
	}
	return nil
}

// WriteProjectors stores the projector description.
func (f *File) WriteProjectors(ctx context.Context, proj *entities.Projectors) error {
	return f.write(ctx, map[string]any{
		ionTypeCounts: proj.NumberIonTypes,
		ionTypes:      proj.IonTypes,
		orbitalTypes:  proj.OrbitalTypes,
		numberSpins:   proj.NumberSpins,
	})
}

// WriteCell stores the unit cell.
func (f *File) WriteCell(ctx context.Context, cell *entities.Cell) error {
	return f.write(ctx, map[string]any{
		cellScale:   cell.Scale,
		cellLattice: cell.LatticeVectors,
	})
}

func (f *File) write(ctx context.Context, datasets map[string]any) error {
	for path, value := range datasets {
		if err := f.store.Write(ctx, path, value); err != nil {
			return err
		}
	}
	return nil
}
