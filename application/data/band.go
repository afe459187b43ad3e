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
	"github.com/jrbp/p4vasp/domain/ports"
)

// Band is the electronic band structure along a k-point path.
type Band struct {
	refinement.Quantity `name:"band" desc:"Electronic band structure"`
	*Base[entities.Band]

	ReadOp     refinement.Op `method:"Read" desc:"Read k-point distances, labels and eigenvalues relative to the Fermi energy (fermi_shift=false keeps absolute energies). Option selection picks projections."`
	ToStringOp refinement.Op `method:"ToString" desc:"Summarize k-points, bands and labels."`
	PlotOp     refinement.Op `method:"Plot" desc:"Build a graph of the bands along the path."`
	ToImageOp  refinement.Op `method:"ToImage" desc:"Write the plot to an image. Option filename defaults to band.png next to the output file."`
}

var bandAccessors = Accessors[entities.Band]{
	Kind: "Band",
	Fetch: func(ctx context.Context, f ports.RawFile) (*entities.Band, error) {
		return f.Band(ctx)
	},
	Format: formatBand,
}

// NewBand wraps band data held in memory.
func NewBand(raw *entities.Band, opts ...Option) *Band {
	return &Band{Base: NewBase(bandAccessors, raw, opts...)}
}

// BandFromFile reads the band structure from source on every access.
func BandFromFile(source Source, opts ...Option) *Band {
	return &Band{Base: FromFile(bandAccessors, source, opts...)}
}

// Bands holds one value per k-point and band.
type Bands struct {
	Label  string      `json:"label" yaml:"label"`
	Values [][]float64 `json:"values" yaml:"values"` // [kpoint][band]
}

// BandData is the refined band structure.
type BandData struct {
	KpointDistances []float64 `json:"kpoint_distances" yaml:"kpoint_distances"`
	// KpointLabels has one entry per k-point, empty where unlabeled.
	KpointLabels []string `json:"kpoint_labels,omitempty" yaml:"kpoint_labels,omitempty"`
	FermiEnergy  float64  `json:"fermi_energy" yaml:"fermi_energy"`
	// Bands are eigenvalues relative to the Fermi energy.
	Bands       []Bands `json:"bands" yaml:"bands"`
	Projections []Bands `json:"projections,omitempty" yaml:"projections,omitempty"`
}

// Read refines the band structure.
func (b *Band) Read(ctx context.Context, opts config.Options) (*BandData, error) {
	return Refine(ctx, b.Base, readBand, opts)
}

// ToString summarizes the band structure.
func (b *Band) ToString(ctx context.Context, _ config.Options) (string, error) {
	return b.Summary(ctx)
}

// Plot builds a graph with one series per band and spin.
func (b *Band) Plot(ctx context.Context, opts config.Options) (*export.Graph, error) {
	data, err := b.Read(ctx, opts)
	if err != nil {
		return nil, err
	}

	graph := &export.Graph{Title: "Band structure", YLabel: "Energy (eV)"}
	for _, bands := range data.Bands {
		for n := 0; n < numberBands(bands.Values); n++ {
			y := make([]float64, len(bands.Values))
			for k := range bands.Values {
				y[k] = bands.Values[k][n]
			}
			graph.Series = append(graph.Series, export.Series{
				Name: fmt.Sprintf("%s %d", bands.Label, n+1),
				X:    data.KpointDistances,
				Y:    y,
			})
		}
	}

	for k, label := range data.KpointLabels {
		if label == "" {
			continue
		}
		if graph.XTicks == nil {
			graph.XTicks = make(map[float64]string)
		}
		x := data.KpointDistances[k]
		if prev, ok := graph.XTicks[x]; ok && prev != label {
			label = prev + "|" + label
		}
		graph.XTicks[x] = label
	}
	return graph, nil
}

// ToImage writes the plot to an image file and returns its path.
func (b *Band) ToImage(ctx context.Context, opts config.Options) (string, error) {
	graph, err := b.Plot(ctx, opts)
	if err != nil {
		return "", err
	}
	return writeImage(b.Dir(), b.Name(), graph, opts)
}

func readBand(raw *entities.Band, opts config.Options) (*BandData, error) {
	distances, err := kpointDistances(raw)
	if err != nil {
		return nil, err
	}
	shift, err := fermiShift(raw.FermiEnergy, opts)
	if err != nil {
		return nil, err
	}
	data := &BandData{
		KpointDistances: distances,
		KpointLabels:    kpointLabels(raw),
		FermiEnergy:     raw.FermiEnergy,
	}

	labels := spinLabels(len(raw.Eigenvalues))
	if len(labels) == 1 {
		labels = []string{"bands"}
	}
	width := -1
	for s, eigenvalues := range raw.Eigenvalues {
		if len(eigenvalues) != len(raw.Kpoints) {
			return nil, fmt.Errorf("band: %d eigenvalue rows for %d k-points", len(eigenvalues), len(raw.Kpoints))
		}
		if width, err = rowWidth(eigenvalues, width); err != nil {
			return nil, fmt.Errorf("band: eigenvalues of spin %d: %w", s+1, err)
		}
		values := make([][]float64, len(eigenvalues))
		for k := range eigenvalues {
			values[k] = shifted(eigenvalues[k], shift)
		}
		data.Bands = append(data.Bands, Bands{Label: labels[s], Values: values})
	}

	selected, err := selectionFromOptions("band", raw.Projectors, raw.Projections != nil, opts)
	if err != nil {
		return nil, err
	}
	for _, proj := range selected {
		for s := range raw.Projections {
			values, err := sumBandProjection(raw.Projections[s], proj, raw.Kpoints, width)
			if err != nil {
				return nil, err
			}
			data.Projections = append(data.Projections, Bands{
				Label:  spinLabel(proj.Label, s, len(raw.Projections)),
				Values: values,
			})
		}
	}
	return data, nil
}

// kpointDistances accumulates the cartesian path length. The first point of
// every line continues at the distance where the previous line ended.
func kpointDistances(raw *entities.Band) ([]float64, error) {
	reciprocal, err := reciprocalLattice(raw.Cell)
	if err != nil {
		return nil, err
	}

	distances := make([]float64, len(raw.Kpoints))
	var previous [3]float64
	for k, kpoint := range raw.Kpoints {
		current := toCartesian(kpoint, reciprocal)
		switch {
		case k == 0:
		case raw.LineLength > 0 && k%raw.LineLength == 0:
			distances[k] = distances[k-1]
		default:
			distances[k] = distances[k-1] + norm(sub(current, previous))
		}
		previous = current
	}
	return distances, nil
}

// kpointLabels places each label at the k-point of its line endpoint.
func kpointLabels(raw *entities.Band) []string {
	if len(raw.Labels) == 0 {
		return nil
	}
	n := len(raw.Kpoints)
	lineLength := raw.LineLength
	if lineLength <= 0 {
		lineLength = n
	}

	labels := make([]string, n)
	for i, label := range raw.Labels {
		if i >= len(raw.LabelIndices) {
			break
		}
		position := raw.LabelIndices[i] - 1
		line := position / 2
		k := line * lineLength
		if position%2 == 1 {
			k += lineLength - 1
		}
		if position >= 0 && k < n {
			labels[k] = strings.TrimSpace(label)
		}
	}
	return labels
}

// sumBandProjection sums [atom][orbital][kpoint][band] over the selection.
// Every weight row must have one entry per band.
func sumBandProjection(projections [][][][]float64, proj Projection, kpoints [][3]float64, width int) ([][]float64, error) {
	var out [][]float64
	for _, a := range proj.Atoms {
		if a >= len(projections) {
			return nil, fmt.Errorf("band projections: atom %d out of range", a+1)
		}
		for _, o := range proj.Orbitals {
			if o >= len(projections[a]) {
				return nil, fmt.Errorf("band projections: orbital %d of atom %d out of range", o, a+1)
			}
			weights := projections[a][o]
			if len(weights) != len(kpoints) {
				return nil, fmt.Errorf("band projections: %d rows for %d k-points", len(weights), len(kpoints))
			}
			w, err := rowWidth(weights, width)
			if err != nil {
				return nil, fmt.Errorf("band projections of atom %d, orbital %d: %w", a+1, o, err)
			}
			width = w
			if out == nil {
				out = make([][]float64, len(weights))
				for k := range weights {
					out[k] = make([]float64, width)
				}
			}
			for k := range weights {
				for n, w := range weights[k] {
					out[k][n] += w
				}
			}
		}
	}
	return out, nil
}

// rowWidth returns the common length of rows. A width >= 0 is the length
// every row has to match.
func rowWidth(rows [][]float64, width int) (int, error) {
	for k, row := range rows {
		if width < 0 {
			width = len(row)
		}
		if len(row) != width {
			return 0, fmt.Errorf("row %d has %d bands, expected %d", k+1, len(row), width)
		}
	}
	return width, nil
}

func formatBand(raw *entities.Band) (string, error) {
	var b strings.Builder
	b.WriteString("Band:\n")
	fmt.Fprintf(&b, "    k-points: %d", len(raw.Kpoints))
	if raw.LineLength > 0 && len(raw.Kpoints) > 0 {
		fmt.Fprintf(&b, " in %d lines", len(raw.Kpoints)/raw.LineLength)
	}
	b.WriteString("\n")
	if len(raw.Eigenvalues) > 0 {
		fmt.Fprintf(&b, "    bands: %d\n", numberBands(raw.Eigenvalues[0]))
	}
	if len(raw.Eigenvalues) == 2 {
		b.WriteString("    spin polarized\n")
	}
	if len(raw.Labels) > 0 {
		fmt.Fprintf(&b, "    labels: %s\n", strings.Join(raw.Labels, ", "))
	}
	writeProjectors(&b, raw.Projectors, "    ")
	return strings.TrimRight(b.String(), "\n"), nil
}

func numberBands(values [][]float64) int {
	if len(values) == 0 {
		return 0
	}
	return len(values[0])
}

// reciprocalLattice returns the rows of the inverse transposed lattice.
func reciprocalLattice(cell entities.Cell) ([3][3]float64, error) {
	a := scaledLattice(cell)
	det := determinant(a)
	if math.Abs(det) < 1e-12 {
		return [3][3]float64{}, fmt.Errorf("cell: lattice vectors are linearly dependent")
	}

	var inv [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			// cofactor of a[j][i] divided by det gives inv[i][j]
			r0, r1 := (j+1)%3, (j+2)%3
			c0, c1 := (i+1)%3, (i+2)%3
			inv[i][j] = (a[r0][c0]*a[r1][c1] - a[r0][c1]*a[r1][c0]) / det
		}
	}

	var rec [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rec[i][j] = inv[j][i]
		}
	}
	return rec, nil
}

func toCartesian(k [3]float64, basis [3][3]float64) [3]float64 {
	var out [3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[j] += k[i] * basis[i][j]
		}
	}
	return out
}

func sub(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func norm(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}
