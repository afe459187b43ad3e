package parser

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jrbp/p4vasp/infrastructure/datastore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dump = `
version/major: 6
version/minor: 4
version/patch: 0
results/positions/scale: 0.5
results/positions/lattice_vectors:
  - [1, 0, 0]
  - [0, 1, 0]
  - [0, 0, 1]
results/positions/ion_types: [Sr, Ti, O]
`

func TestYamlDumpParser_Parse(t *testing.T) {
	p := NewYamlDumpParser()

	datasets, err := p.Parse([]byte(dump))
	require.NoError(t, err)
	assert.Len(t, datasets, 6)
	assert.Equal(t, 0.5, datasets["results/positions/scale"])
	assert.Equal(t, []any{"Sr", "Ti", "O"}, datasets["results/positions/ion_types"])
}

func TestYamlDumpParser_ParseInvalid(t *testing.T) {
	_, err := NewYamlDumpParser().Parse([]byte("- not\n- a mapping"))
	assert.Error(t, err)
}

func TestImportExport(t *testing.T) {
	ctx := context.Background()
	p := NewYamlDumpParser()

	store, err := datastore.Open(ctx, filepath.Join(t.TempDir(), "vaspout.db"), datastore.WithCreate(true))
	require.NoError(t, err)
	defer store.Close()

	n, err := Import(ctx, store, p, []byte(dump))
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	var scale float64
	require.NoError(t, store.Read(ctx, "results/positions/scale", &scale))
	assert.Equal(t, 0.5, scale)

	var lattice [3][3]float64
	require.NoError(t, store.Read(ctx, "results/positions/lattice_vectors", &lattice))
	assert.Equal(t, [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, lattice)

	out, err := Export(ctx, store, p, "results/positions")
	require.NoError(t, err)

	back, err := p.Parse(out)
	require.NoError(t, err)
	assert.Len(t, back, 3)
	assert.Equal(t, 0.5, back["results/positions/scale"])
	assert.NotContains(t, back, "version/major")
}
