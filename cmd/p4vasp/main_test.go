package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jrbp/p4vasp/domain/entities"
	"github.com/jrbp/p4vasp/domain/errors"
	"github.com/jrbp/p4vasp/infrastructure/rawfile"
	"github.com/jrbp/p4vasp/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeOutput(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	ctx := context.Background()

	f, err := rawfile.Create(ctx, dir)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, f.WriteVersion(ctx, entities.RawVersion{Major: 6, Minor: 4}))
	require.NoError(t, f.WriteDos(ctx, &entities.Dos{
		FermiEnergy: 0.5,
		Energies:    []float64{0, 1, 2},
		Dos:         [][]float64{{1, 2, 3}},
	}))
	require.NoError(t, f.WriteCell(ctx, &entities.Cell{
		Scale:          1,
		LatticeVectors: [3][3]float64{{2, 0, 0}, {0, 2, 0}, {0, 0, 2}},
	}))
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-mode", "nop"))
	err := cmd.Execute()
	return out.String(), err
}

func TestList(t *testing.T) {
	out, err := execute(t, "list", "--path", writeOutput(t))
	require.NoError(t, err)
	assert.Contains(t, out, "dos: ")
	assert.Contains(t, out, "    to_image")
	assert.Contains(t, out, "projectors: ")
}

func TestPrint(t *testing.T) {
	out, err := execute(t, "print", "cell", "-p", writeOutput(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Cell\n"), out)

	_, err = execute(t, "print", "magnetism", "-p", writeOutput(t))
	var refErr *errors.RefinementError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "magnetism", refErr.Quantity)
}

func TestRepr(t *testing.T) {
	dir := writeOutput(t)
	out, err := execute(t, "repr", "dos", "-p", dir)
	require.NoError(t, err)
	assert.Equal(t, `Dos.FromFile("`+dir+`")`+"\n", out)
}

func TestRefine(t *testing.T) {
	dir := writeOutput(t)

	out, err := execute(t, "refine", "dos", "read", "-p", dir)
	require.NoError(t, err)
	var dos struct {
		Energies    []float64 `json:"energies"`
		FermiEnergy float64   `json:"fermi_energy"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &dos), out)
	assert.Equal(t, []float64{-0.5, 0.5, 1.5}, dos.Energies)

	out, err = execute(t, "refine", "cell", "read", "-p", dir, "--format", "json")
	require.NoError(t, err)
	testutil.AssertJSONEqual(t, `{
		"lattice_vectors": [[2, 0, 0], [0, 2, 0], [0, 0, 2]],
		"lengths": [2, 2, 2],
		"volume": 8
	}`, out)

	out, err = execute(t, "refine", "cell", "read", "-p", dir, "--format", "yaml")
	require.NoError(t, err)
	var cell map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &cell), out)
	testutil.AssertMapContains(t, map[string]any{"volume": 8, "lengths": []any{2, 2, 2}}, cell)

	out, err = execute(t, "refine", "dos", "to_string", "-p", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Dos:\n")

	_, err = execute(t, "refine", "dos", "read", "-p", dir, "--format", "toml")
	assert.Error(t, err)

	_, err = execute(t, "refine", "dos", "read", "bad-arg", "-p", dir)
	assert.Error(t, err)

	_, err = execute(t, "refine", "band", "read", "-p", dir)
	assert.ErrorIs(t, err, errors.ErrNoData)
}

func TestImage(t *testing.T) {
	dir := writeOutput(t)
	filename := filepath.Join(t.TempDir(), "dos.png")

	out, err := execute(t, "image", "dos", "-o", filename, "-p", dir)
	require.NoError(t, err)
	assert.Contains(t, out, filename)
	assert.FileExists(t, filename)

	_, err = execute(t, "image", "dos", "-o", "dos.svg", "-p", dir)
	var formatErr *errors.FormatError
	assert.ErrorAs(t, err, &formatErr)
}

func TestSchema(t *testing.T) {
	out, err := execute(t, "schema", "-p", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "band\ncell\ndos\nprojectors\n", out)

	out, err = execute(t, "schema", "cell", "-p", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, `"scale"`)

	_, err = execute(t, "schema", "magnetism", "-p", t.TempDir())
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestExportImport(t *testing.T) {
	dir := writeOutput(t)
	dump := filepath.Join(t.TempDir(), "dump.yaml")

	_, err := execute(t, "export", "-o", dump, "-p", dir)
	require.NoError(t, err)
	content, err := os.ReadFile(dump)
	require.NoError(t, err)
	assert.Contains(t, string(content), "results/positions/scale")

	target := t.TempDir()
	out, err := execute(t, "import", dump, "-p", target)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(target, rawfile.DefaultFilename))

	out, err = execute(t, "refine", "cell", "read", "-p", target)
	require.NoError(t, err)
	assert.Contains(t, out, `"volume": 8`)

	out, err = execute(t, "export", "--prefix", "version", "-p", target)
	require.NoError(t, err)
	assert.NotContains(t, out, "results/")
	assert.Contains(t, out, "version/major")
}

func TestPathFromEnvironment(t *testing.T) {
	dir := writeOutput(t)
	t.Setenv("P4VASP_PATH", dir)

	out, err := execute(t, "repr", "cell")
	require.NoError(t, err)
	assert.Equal(t, `Cell.FromFile("`+dir+`")`+"\n", out)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "list", "--log-level", "loud", "-p", t.TempDir())
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "VASP >= 6.2.0")
}
