package calculation

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jrbp/p4vasp/application/config"
	"github.com/jrbp/p4vasp/application/data"
	"github.com/jrbp/p4vasp/domain/entities"
	"github.com/jrbp/p4vasp/domain/errors"
	"github.com/jrbp/p4vasp/infrastructure/rawfile"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var version = entities.RawVersion{Major: 6, Minor: 4, Patch: 1}

// writeOutput creates a calculation directory with a DOS and a cell.
func writeOutput(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	ctx := context.Background()

	f, err := rawfile.Create(ctx, dir)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, f.WriteVersion(ctx, version))
	require.NoError(t, f.WriteDos(ctx, &entities.Dos{
		FermiEnergy: 1,
		Energies:    []float64{0, 1, 2},
		Dos:         [][]float64{{0, 3, 0}},
	}))
	require.NoError(t, f.WriteCell(ctx, &entities.Cell{
		Scale:          2,
		LatticeVectors: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	}))
	return dir
}

func TestFromPath(t *testing.T) {
	dir := writeOutput(t)

	calc, err := FromPath(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, calc.Path())

	names := make([]string, 0)
	for _, q := range calc.Quantities() {
		names = append(names, q.Name)
	}
	assert.Equal(t, []string{"band", "cell", "dos", "projectors"}, names)

	q, ok := calc.Quantity("dos")
	require.True(t, ok)
	assert.Same(t, calc.Dos, q)
	assert.Equal(t, `Dos.FromFile("`+dir+`")`, q.Repr())
}

func TestFromPath_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	calc, err := FromPath("~/calc")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "calc"), calc.Path())

	calc, err = FromPath("~")
	require.NoError(t, err)
	assert.Equal(t, home, calc.Path())
}

func TestFromPath_Relative(t *testing.T) {
	dir := t.TempDir()
	prevWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prevWD) })

	calc, err := FromPath("sub")
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "sub"), calc.Path())
}

func TestRefine(t *testing.T) {
	calc, err := FromPath(writeOutput(t))
	require.NoError(t, err)
	ctx := context.Background()

	res, err := calc.Refine(ctx, "dos", "read", nil)
	require.NoError(t, err)
	dos, ok := res.(*data.DosData)
	require.True(t, ok, "got %T", res)
	assert.Equal(t, []float64{-1, 0, 1}, dos.Energies)

	res, err = calc.Refine(ctx, "cell", "read", config.Options{})
	require.NoError(t, err)
	assert.InDelta(t, 8.0, res.(*data.CellData).Volume, 1e-12)

	_, err = calc.Refine(ctx, "band", "read", nil)
	assert.ErrorIs(t, err, errors.ErrNoData)

	var refErr *errors.RefinementError
	_, err = calc.Refine(ctx, "dos", "unknown", nil)
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "unknown", refErr.Refinement)

	_, err = calc.Refine(ctx, "magnetism", "read", nil)
	require.ErrorAs(t, err, &refErr)
	assert.Empty(t, refErr.Refinement)
}

func TestRefine_MissingOutput(t *testing.T) {
	calc, err := FromPath(t.TempDir())
	require.NoError(t, err)

	_, err = calc.Refine(context.Background(), "dos", "read", nil)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestDataOptions(t *testing.T) {
	calc, err := FromPath(writeOutput(t), WithDataOptions(data.WithMinimalVersion(entities.RawVersion{Major: 7})))
	require.NoError(t, err)

	_, err = calc.Refine(context.Background(), "dos", "read", nil)
	assert.ErrorIs(t, err, errors.ErrOutdatedVersion)
}

func TestDoc(t *testing.T) {
	calc, err := FromPath(t.TempDir())
	require.NoError(t, err)

	doc, ok := calc.Doc("cell", "to_string")
	require.True(t, ok)
	assert.Contains(t, doc, "POSCAR")
}

func TestInputFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	calc, err := FromPath("/calc", WithFs(fs))
	require.NoError(t, err)

	incar := calc.INCAR()
	assert.Equal(t, filepath.Join(calc.Path(), "INCAR"), incar.Path())
	assert.Equal(t, "INCAR", incar.Name())
	assert.False(t, incar.Exists())

	_, err = incar.Read()
	assert.ErrorIs(t, err, errors.ErrNotFound)

	require.NoError(t, incar.Write("ENCUT = 500"))
	assert.True(t, incar.Exists())
	content, err := calc.INCAR().Read()
	require.NoError(t, err)
	assert.Equal(t, "ENCUT = 500\n", content)

	require.NoError(t, calc.SetKPOINTS(stringer("Gamma\n 4 4 4\n")))
	content, err = calc.KPOINTS().Read()
	require.NoError(t, err)
	assert.Equal(t, "Gamma\n 4 4 4\n", content)

	var out strings.Builder
	require.NoError(t, calc.KPOINTS().Fprint(&out))
	assert.Equal(t, "Gamma\n 4 4 4\n", out.String())
}

func TestSetPOSCARFromCell(t *testing.T) {
	fs := afero.NewMemMapFs()
	calc, err := FromPath(writeOutput(t), WithFs(fs))
	require.NoError(t, err)

	require.NoError(t, calc.SetPOSCAR(calc.Cell))
	content, err := calc.POSCAR().Read()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(content, "Cell\n"))

	// the output directory on disk is untouched
	_, err = os.Stat(filepath.Join(calc.Path(), POSCAR))
	assert.True(t, os.IsNotExist(err))
}

func TestInputFiles_OutputFilePath(t *testing.T) {
	dir := writeOutput(t)
	output := filepath.Join(dir, rawfile.DefaultFilename)

	calc, err := FromPath(output)
	require.NoError(t, err)
	assert.Equal(t, output, calc.Path())
	assert.Equal(t, dir, calc.Dir())
	assert.Equal(t, filepath.Join(dir, INCAR), calc.INCAR().Path())

	require.NoError(t, calc.SetINCAR(stringer("ISPIN = 2")))
	content, err := os.ReadFile(filepath.Join(dir, INCAR))
	require.NoError(t, err)
	assert.Equal(t, "ISPIN = 2\n", string(content))

	res, err := calc.Refine(context.Background(), "cell", "read", nil)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, res.(*data.CellData).Volume, 1e-12)

	calc, err = FromPath(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, calc.Dir())
}

type stringer string

func (s stringer) String() string { return string(s) }
