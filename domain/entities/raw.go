package entities

// Raw is implemented by every raw data container.
type Raw interface {
	RawVersion() RawVersion
}

// Dos holds the electronic density of states.
type Dos struct {
	Version RawVersion `json:"version" yaml:"version"`

	// FermiEnergy is the Fermi energy in eV.
	FermiEnergy float64 `json:"fermi_energy" yaml:"fermi_energy"`

	// Energies is the energy mesh the DOS is evaluated on.
	Energies []float64 `json:"energies" yaml:"energies" validate:"required"`

	// Dos is indexed by [spin][energy].
	Dos [][]float64 `json:"dos" yaml:"dos" validate:"required,min=1,max=2"`

	// Projectors describes the atom and orbital projections, nil if not written.
	Projectors *Projectors `json:"projectors,omitempty" yaml:"projectors,omitempty"`

	// Projections is indexed by [spin][atom][orbital][energy].
	Projections [][][][]float64 `json:"projections,omitempty" yaml:"projections,omitempty"`
}

// RawVersion implements Raw.
func (d Dos) RawVersion() RawVersion { return d.Version }

// Band holds the electronic band structure along a k-point path.
type Band struct {
	Version RawVersion `json:"version" yaml:"version"`

	FermiEnergy float64 `json:"fermi_energy" yaml:"fermi_energy"`

	// LineLength is the number of k-points per line segment of the path.
	LineLength int `json:"line_length" yaml:"line_length" validate:"gte=0"`

	Kpoints [][3]float64 `json:"kpoints" yaml:"kpoints" validate:"required"`

	// Eigenvalues is indexed by [spin][kpoint][band].
	Eigenvalues [][][]float64 `json:"eigenvalues" yaml:"eigenvalues" validate:"required,min=1,max=2"`

	Cell Cell `json:"cell" yaml:"cell"`

	// Labels name high-symmetry points of the path. LabelIndices holds their
	// 1-based positions among the line endpoints (start and end of every line).
	Labels       []string `json:"labels,omitempty" yaml:"labels,omitempty"`
	LabelIndices []int    `json:"label_indices,omitempty" yaml:"label_indices,omitempty"`

	Projectors *Projectors `json:"projectors,omitempty" yaml:"projectors,omitempty"`

	// Projections is indexed by [spin][atom][orbital][kpoint][band].
	Projections [][][][][]float64 `json:"projections,omitempty" yaml:"projections,omitempty"`
}

// RawVersion implements Raw.
func (b Band) RawVersion() RawVersion { return b.Version }

// Projectors describes which atoms and orbitals projections refer to.
type Projectors struct {
	Version RawVersion `json:"version" yaml:"version"`

	// NumberIonTypes counts the atoms of each species, aligned with IonTypes.
	NumberIonTypes []int    `json:"number_ion_types" yaml:"number_ion_types" validate:"required"`
	IonTypes       []string `json:"ion_types" yaml:"ion_types" validate:"required"`
	OrbitalTypes   []string `json:"orbital_types" yaml:"orbital_types" validate:"required"`
	NumberSpins    int      `json:"number_spins" yaml:"number_spins" validate:"oneof=1 2"`
}

// RawVersion implements Raw.
func (p Projectors) RawVersion() RawVersion { return p.Version }

// NumberAtoms returns the total number of atoms over all species.
func (p Projectors) NumberAtoms() int {
	total := 0
	for _, n := range p.NumberIonTypes {
		total += n
	}
	return total
}

// Cell holds the unit cell of the structure.
type Cell struct {
	Version RawVersion `json:"version" yaml:"version"`

	Scale          float64       `json:"scale" yaml:"scale" validate:"gt=0"`
	LatticeVectors [3][3]float64 `json:"lattice_vectors" yaml:"lattice_vectors"`
}

// RawVersion implements Raw.
func (c Cell) RawVersion() RawVersion { return c.Version }
