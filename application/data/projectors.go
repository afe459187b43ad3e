package data

import (
	"context"
	"fmt"
	"strings"

	"github.com/jrbp/p4vasp/application/config"
	"github.com/jrbp/p4vasp/application/refinement"
	"github.com/jrbp/p4vasp/domain/entities"
	"github.com/jrbp/p4vasp/domain/errors"
	"github.com/jrbp/p4vasp/domain/ports"
)

// Projectors describes the atoms and orbitals projections are resolved into.
type Projectors struct {
	refinement.Quantity `name:"projectors" desc:"Atom and orbital projectors"`
	*Base[entities.Projectors]

	ReadOp     refinement.Op `method:"Read" desc:"Read the atom indices of every ion type and the orbital names."`
	ToStringOp refinement.Op `method:"ToString" desc:"List ion types and orbitals."`
	SelectOp   refinement.Op `method:"Select" desc:"Resolve option selection, e.g. \"Sr, p, Ti(s d)\", into atom and orbital indices."`
}

var projectorsAccessors = Accessors[entities.Projectors]{
	Kind: "Projectors",
	Fetch: func(ctx context.Context, f ports.RawFile) (*entities.Projectors, error) {
		return f.Projectors(ctx)
	},
	Format: formatProjectors,
}

// NewProjectors wraps projectors held in memory.
func NewProjectors(raw *entities.Projectors, opts ...Option) *Projectors {
	return &Projectors{Base: NewBase(projectorsAccessors, raw, opts...)}
}

// ProjectorsFromFile reads the projectors from source on every access.
func ProjectorsFromFile(source Source, opts ...Option) *Projectors {
	return &Projectors{Base: FromFile(projectorsAccessors, source, opts...)}
}

// AtomType lists the 0-based indices of the atoms of one ion type.
type AtomType struct {
	Label   string `json:"label" yaml:"label"`
	Indices []int  `json:"indices" yaml:"indices"`
}

// ProjectorsData is the refined projector description.
type ProjectorsData struct {
	Atoms         []AtomType `json:"atoms" yaml:"atoms"`
	Orbitals      []string   `json:"orbitals" yaml:"orbitals"`
	SpinPolarized bool       `json:"spin_polarized" yaml:"spin_polarized"`
}

// Read refines the projectors.
func (p *Projectors) Read(ctx context.Context, opts config.Options) (*ProjectorsData, error) {
	return Refine(ctx, p.Base, readProjectors, opts)
}

// ToString lists ion types and orbitals.
func (p *Projectors) ToString(ctx context.Context, _ config.Options) (string, error) {
	return p.Summary(ctx)
}

// Select resolves the selection option.
func (p *Projectors) Select(ctx context.Context, opts config.Options) ([]Projection, error) {
	return Refine(ctx, p.Base, selectFromOptions, opts)
}

func readProjectors(raw *entities.Projectors, _ config.Options) (*ProjectorsData, error) {
	data := &ProjectorsData{
		Orbitals:      raw.OrbitalTypes,
		SpinPolarized: raw.NumberSpins == 2,
	}
	start := 0
	for i, label := range raw.IonTypes {
		stop := start + raw.NumberIonTypes[i]
		data.Atoms = append(data.Atoms, AtomType{Label: label, Indices: rangeIndices(start, stop)})
		start = stop
	}
	return data, nil
}

func selectFromOptions(raw *entities.Projectors, opts config.Options) ([]Projection, error) {
	selection, err := config.MustGetString(opts, SelectionOption)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(selection) == "" {
		return nil, &errors.ConfigError{Field: SelectionOption, Err: fmt.Errorf("selection is empty")}
	}
	return SelectProjections(raw, selection)
}

func formatProjectors(raw *entities.Projectors) (string, error) {
	var b strings.Builder
	writeProjectors(&b, raw, "")
	return strings.TrimRight(b.String(), "\n"), nil
}
