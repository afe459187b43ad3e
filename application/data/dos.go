package data

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/jrbp/p4vasp/application/config"
	"github.com/jrbp/p4vasp/application/export"
	"github.com/jrbp/p4vasp/application/refinement"
	"github.com/jrbp/p4vasp/domain/entities"
	"github.com/jrbp/p4vasp/domain/errors"
	"github.com/jrbp/p4vasp/domain/ports"
)

// Energy options of the DOS and band refinements.
const (
	// FermiShiftOption set to false reports absolute energies.
	FermiShiftOption = "fermi_shift"
	EnergyMinOption  = "emin"
	EnergyMaxOption  = "emax"
)

// Dos is the electronic density of states.
type Dos struct {
	refinement.Quantity `name:"dos" desc:"Electronic density of states"`
	*Base[entities.Dos]

	ReadOp     refinement.Op `method:"Read" desc:"Read the DOS relative to the Fermi energy (fermi_shift=false keeps absolute energies). Option selection picks projections, e.g. \"Sr, p, Ti(s d)\"."`
	ToStringOp refinement.Op `method:"ToString" desc:"Summarize energy mesh, spin polarization and projectors."`
	PlotOp     refinement.Op `method:"Plot" desc:"Build a graph of the DOS; accepts the options of read and an energy window emin, emax."`
	ToImageOp  refinement.Op `method:"ToImage" desc:"Write the plot to an image. Option filename defaults to dos.png next to the output file."`
}

var dosAccessors = Accessors[entities.Dos]{
	Kind: "Dos",
	Fetch: func(ctx context.Context, f ports.RawFile) (*entities.Dos, error) {
		return f.Dos(ctx)
	},
	Format: formatDos,
}

// NewDos wraps DOS data held in memory.
func NewDos(raw *entities.Dos, opts ...Option) *Dos {
	return &Dos{Base: NewBase(dosAccessors, raw, opts...)}
}

// DosFromFile reads the DOS from source on every access.
func DosFromFile(source Source, opts ...Option) *Dos {
	return &Dos{Base: FromFile(dosAccessors, source, opts...)}
}

// Line is a labeled curve sampled on a shared mesh.
type Line struct {
	Label  string    `json:"label" yaml:"label"`
	Values []float64 `json:"values" yaml:"values"`
}

// DosData is the refined density of states.
type DosData struct {
	// Energies are relative to the Fermi energy unless fermi_shift is false.
	Energies    []float64 `json:"energies" yaml:"energies"`
	FermiEnergy float64   `json:"fermi_energy" yaml:"fermi_energy"`
	Lines       []Line    `json:"lines" yaml:"lines"`
}

// Line returns the line with the given label.
func (d *DosData) Line(label string) ([]float64, bool) {
	for _, l := range d.Lines {
		if l.Label == label {
			return l.Values, true
		}
	}
	return nil, false
}

// Read refines the DOS.
func (d *Dos) Read(ctx context.Context, opts config.Options) (*DosData, error) {
	return Refine(ctx, d.Base, readDos, opts)
}

// ToString summarizes the DOS.
func (d *Dos) ToString(ctx context.Context, _ config.Options) (string, error) {
	return d.Summary(ctx)
}

// Plot builds a graph of the DOS. Spin down lines are drawn negative.
func (d *Dos) Plot(ctx context.Context, opts config.Options) (*export.Graph, error) {
	data, err := d.Read(ctx, opts)
	if err != nil {
		return nil, err
	}

	emin, err := config.FloatOr(opts, EnergyMinOption, math.Inf(-1))
	if err != nil {
		return nil, err
	}
	emax, err := config.FloatOr(opts, EnergyMaxOption, math.Inf(1))
	if err != nil {
		return nil, err
	}
	if emin >= emax {
		return nil, &errors.ConfigError{Field: EnergyMinOption, Err: fmt.Errorf("empty energy window [%g, %g]", emin, emax)}
	}

	var window []int
	for i, e := range data.Energies {
		if e >= emin && e <= emax {
			window = append(window, i)
		}
	}

	graph := &export.Graph{Title: "DOS", XLabel: "Energy (eV)", YLabel: "DOS (1/eV)"}
	for _, l := range data.Lines {
		factor := 1.0
		if strings.HasSuffix(l.Label, "down") {
			factor = -1
		}
		series := export.Series{Name: l.Label, X: make([]float64, len(window)), Y: make([]float64, len(window))}
		for j, i := range window {
			series.X[j] = data.Energies[i]
			series.Y[j] = factor * l.Values[i]
		}
		graph.Series = append(graph.Series, series)
	}
	return graph, nil
}

// ToImage writes the plot to an image file and returns its path.
func (d *Dos) ToImage(ctx context.Context, opts config.Options) (string, error) {
	graph, err := d.Plot(ctx, opts)
	if err != nil {
		return "", err
	}
	return writeImage(d.Dir(), d.Name(), graph, opts)
}

func readDos(raw *entities.Dos, opts config.Options) (*DosData, error) {
	shift, err := fermiShift(raw.FermiEnergy, opts)
	if err != nil {
		return nil, err
	}
	data := &DosData{
		Energies:    shifted(raw.Energies, shift),
		FermiEnergy: raw.FermiEnergy,
	}

	labels := spinLabels(len(raw.Dos))
	for s, values := range raw.Dos {
		if len(values) != len(raw.Energies) {
			return nil, fmt.Errorf("dos: %d values for %d energies", len(values), len(raw.Energies))
		}
		data.Lines = append(data.Lines, Line{Label: labels[s], Values: values})
	}

	selected, err := selectionFromOptions("dos", raw.Projectors, raw.Projections != nil, opts)
	if err != nil {
		return nil, err
	}
	for _, proj := range selected {
		for s := range raw.Projections {
			values, err := sumDosProjection(raw.Projections[s], proj, len(raw.Energies))
			if err != nil {
				return nil, err
			}
			data.Lines = append(data.Lines, Line{Label: spinLabel(proj.Label, s, len(raw.Projections)), Values: values})
		}
	}
	return data, nil
}

// sumDosProjection sums [atom][orbital][energy] over the selected atoms and orbitals.
func sumDosProjection(projections [][][]float64, proj Projection, n int) ([]float64, error) {
	out := make([]float64, n)
	for _, a := range proj.Atoms {
		if a >= len(projections) {
			return nil, fmt.Errorf("dos projections: atom %d out of range", a+1)
		}
		for _, o := range proj.Orbitals {
			if o >= len(projections[a]) || len(projections[a][o]) != n {
				return nil, fmt.Errorf("dos projections: orbital %d of atom %d out of range", o, a+1)
			}
			for e, v := range projections[a][o] {
				out[e] += v
			}
		}
	}
	return out, nil
}

func formatDos(raw *entities.Dos) (string, error) {
	var b strings.Builder
	b.WriteString("Dos:\n")
	if n := len(raw.Energies); n > 0 {
		fmt.Fprintf(&b, "    energies: [%.2f, %.2f] %d points\n", raw.Energies[0], raw.Energies[n-1], n)
	}
	fmt.Fprintf(&b, "    fermi energy: %.4f\n", raw.FermiEnergy)
	if len(raw.Dos) == 2 {
		b.WriteString("    spin polarized\n")
	}
	writeProjectors(&b, raw.Projectors, "    ")
	return strings.TrimRight(b.String(), "\n"), nil
}

func writeProjectors(b *strings.Builder, p *entities.Projectors, indent string) {
	if p == nil {
		b.WriteString(indent + "no projectors\n")
		return
	}
	b.WriteString(indent + "projectors:\n")
	fmt.Fprintf(b, "%s    atoms: %s\n", indent, strings.Join(p.IonTypes, ", "))
	fmt.Fprintf(b, "%s    orbitals: %s\n", indent, strings.Join(p.OrbitalTypes, ", "))
}

func spinLabels(spins int) []string {
	if spins == 2 {
		return []string{"up", "down"}
	}
	return []string{"total"}
}

func spinLabel(label string, spin, spins int) string {
	if spins != 2 {
		return label
	}
	return label + "_" + spinLabels(2)[spin]
}

// fermiShift is the offset applied to energies: minus the Fermi energy
// unless the fermi_shift option is false.
func fermiShift(fermiEnergy float64, opts config.Options) (float64, error) {
	shift, err := config.BoolOr(opts, FermiShiftOption, true)
	if err != nil || !shift {
		return 0, err
	}
	return -fermiEnergy, nil
}

func shifted(values []float64, offset float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v + offset
	}
	return out
}
