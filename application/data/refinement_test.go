package data

import (
	"context"
	"reflect"
	"testing"

	"github.com/jrbp/p4vasp/application/config"
	"github.com/jrbp/p4vasp/application/refinement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantitiesRegister(t *testing.T) {
	def := refinement.NewDefinition()
	refinement.MustRegister(def, NewDos(referenceDos(1, true)))
	refinement.MustRegister(def, NewBand(referenceBand(1, false)))
	refinement.MustRegister(def, NewCell(cubicCell(1)))
	refinement.MustRegister(def, NewProjectors(perovskiteProjectors(1)))

	names := map[string][]string{}
	for _, q := range def.Quantities() {
		for _, r := range q.Refinements {
			names[q.Name] = append(names[q.Name], r.Name)
		}
	}
	assert.Equal(t, map[string][]string{
		"band":       {"plot", "read", "to_image", "to_string"},
		"cell":       {"read", "to_string"},
		"dos":        {"plot", "read", "to_image", "to_string"},
		"projectors": {"read", "select", "to_string"},
	}, names)
}

func TestQuantitiesKeepDocs(t *testing.T) {
	def := refinement.NewDefinition()
	require.NoError(t, refinement.Register(def, NewDos(nil)))

	field, ok := reflect.TypeOf(Dos{}).FieldByName("ReadOp")
	require.True(t, ok)

	doc, ok := def.Doc("dos", "read")
	require.True(t, ok)
	assert.Equal(t, field.Tag.Get("desc"), doc)
	assert.Contains(t, doc, "selection")
}

func TestHandlerPassesOptions(t *testing.T) {
	def := refinement.NewDefinition()
	require.NoError(t, refinement.Register(def, NewDos(referenceDos(1, true))))

	handler, ok := def.Handler("dos", "read")
	require.True(t, ok)

	result, err := handler(context.Background(), config.Options{SelectionOption: "Ti"})
	require.NoError(t, err)

	data, ok := result.(*DosData)
	require.True(t, ok, "got %T", result)
	_, ok = data.Line("Ti")
	assert.True(t, ok)
}
