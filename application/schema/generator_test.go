package schema

import (
	"encoding/json"
	"testing"

	"github.com/jrbp/p4vasp/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, schema []byte) map[string]interface{} {
	t.Helper()
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(schema, &decoded))
	return decoded
}

func TestGenerateSchema_Cell(t *testing.T) {
	schema, err := GenerateSchema(entities.Cell{})
	require.NoError(t, err)

	decoded := decode(t, schema)
	properties, ok := decoded["properties"].(map[string]interface{})
	require.True(t, ok, "properties should be a map")
	assert.Contains(t, properties, "version")
	assert.Contains(t, properties, "scale")
	assert.Contains(t, properties, "lattice_vectors")
}

func TestGenerateSchema_OptionalFieldsNotRequired(t *testing.T) {
	schema, err := GenerateSchema(entities.Dos{})
	require.NoError(t, err)

	decoded := decode(t, schema)
	required, ok := decoded["required"].([]interface{})
	require.True(t, ok, "required should be an array")
	assert.Contains(t, required, "energies")
	assert.Contains(t, required, "dos")
	assert.NotContains(t, required, "projectors")
	assert.NotContains(t, required, "projections")
}

func TestGenerateSchema_NestedStruct(t *testing.T) {
	schema, err := GenerateSchema(entities.Band{})
	require.NoError(t, err)

	schemaStr := string(schema)
	assert.Contains(t, schemaStr, "cell")
	assert.Contains(t, schemaStr, "lattice_vectors")
	assert.Contains(t, schemaStr, "number_ion_types")
}

func TestGenerateSchema_EmptyStruct(t *testing.T) {
	type Empty struct{}

	schema, err := GenerateSchema(Empty{})
	require.NoError(t, err)
	assert.NotEmpty(t, decode(t, schema))
}

func TestRegistry(t *testing.T) {
	t.Run("register and get", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register("cell", entities.Cell{}))

		s, ok := r.GetSchema("cell")
		require.True(t, ok)
		assert.Contains(t, s, "lattice_vectors")

		_, ok = r.GetSchema("dos")
		assert.False(t, ok)
	})

	t.Run("strict mode rejects duplicates", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register("cell", entities.Cell{}))
		assert.Error(t, r.Register("cell", entities.Cell{}))
	})

	t.Run("lenient mode overwrites", func(t *testing.T) {
		r := NewRegistry(WithStrictMode(false))
		require.NoError(t, r.Register("raw", entities.Cell{}))
		require.NoError(t, r.Register("raw", entities.Projectors{}))

		s, _ := r.GetSchema("raw")
		assert.Contains(t, s, "orbital_types")
	})
}

func TestNewRawRegistry(t *testing.T) {
	r, err := NewRawRegistry()
	require.NoError(t, err)
	assert.Equal(t, []string{"band", "cell", "dos", "projectors"}, r.List())
}

func TestGenerateSchema_NestedContainerInDefs(t *testing.T) {
	schema, err := GenerateSchema(entities.Band{})
	require.NoError(t, err)

	decoded := decode(t, schema)
	assert.NotContains(t, decoded, "$id")
	assert.NotContains(t, decoded, "$ref")
	defs, ok := decoded["$defs"].(map[string]interface{})
	require.True(t, ok, "$defs should be a map")
	assert.Contains(t, defs, "Cell")
}
