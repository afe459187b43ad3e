package data

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/jrbp/p4vasp/application/config"
	"github.com/jrbp/p4vasp/application/refinement"
	"github.com/jrbp/p4vasp/domain/entities"
	"github.com/jrbp/p4vasp/domain/ports"
)

// Cell is the unit cell of the structure.
type Cell struct {
	refinement.Quantity `name:"cell" desc:"Unit cell of the crystal"`
	*Base[entities.Cell]

	ReadOp     refinement.Op `method:"Read" desc:"Read the scaled lattice vectors, their lengths and the cell volume."`
	ToStringOp refinement.Op `method:"ToString" desc:"Format the cell like the header of a POSCAR file."`
}

var cellAccessors = Accessors[entities.Cell]{
	Kind: "Cell",
	Fetch: func(ctx context.Context, f ports.RawFile) (*entities.Cell, error) {
		return f.Cell(ctx)
	},
	Format: formatCell,
}

// NewCell wraps a cell held in memory.
func NewCell(raw *entities.Cell, opts ...Option) *Cell {
	return &Cell{Base: NewBase(cellAccessors, raw, opts...)}
}

// CellFromFile reads the cell from source on every access.
func CellFromFile(source Source, opts ...Option) *Cell {
	return &Cell{Base: FromFile(cellAccessors, source, opts...)}
}

// CellData is the refined unit cell.
type CellData struct {
	LatticeVectors [3][3]float64 `json:"lattice_vectors" yaml:"lattice_vectors"`
	Lengths        [3]float64    `json:"lengths" yaml:"lengths"`
	Volume         float64       `json:"volume" yaml:"volume"`
}

// Read refines the cell.
func (c *Cell) Read(ctx context.Context, opts config.Options) (*CellData, error) {
	return Refine(ctx, c.Base, readCell, opts)
}

// ToString formats the cell like a POSCAR header.
func (c *Cell) ToString(ctx context.Context, _ config.Options) (string, error) {
	return c.Summary(ctx)
}

func readCell(raw *entities.Cell, _ config.Options) (*CellData, error) {
	lattice := scaledLattice(*raw)
	data := &CellData{
		LatticeVectors: lattice,
		Volume:         math.Abs(determinant(lattice)),
	}
	for i, v := range lattice {
		data.Lengths[i] = norm(v)
	}
	return data, nil
}

func formatCell(raw *entities.Cell) (string, error) {
	var b strings.Builder
	b.WriteString("Cell\n")
	fmt.Fprintf(&b, "%21.16f\n", raw.Scale)
	for _, v := range raw.LatticeVectors {
		fmt.Fprintf(&b, "%21.16f%21.16f%21.16f\n", v[0], v[1], v[2])
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func scaledLattice(cell entities.Cell) [3][3]float64 {
	var out [3][3]float64
	for i := range cell.LatticeVectors {
		for j := range cell.LatticeVectors[i] {
			out[i][j] = cell.Scale * cell.LatticeVectors[i][j]
		}
	}
	return out
}

func determinant(a [3][3]float64) float64 {
	return a[0][0]*(a[1][1]*a[2][2]-a[1][2]*a[2][1]) -
		a[0][1]*(a[1][0]*a[2][2]-a[1][2]*a[2][0]) +
		a[0][2]*(a[1][0]*a[2][1]-a[1][1]*a[2][0])
}
