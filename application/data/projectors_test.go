package data

import (
	"context"
	"testing"

	"github.com/jrbp/p4vasp/application/config"
	"github.com/jrbp/p4vasp/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectors_Read(t *testing.T) {
	data, err := NewProjectors(perovskiteProjectors(2)).Read(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, []AtomType{
		{Label: "Sr", Indices: []int{0}},
		{Label: "Ti", Indices: []int{1}},
		{Label: "O", Indices: []int{2, 3, 4}},
	}, data.Atoms)
	assert.Equal(t, []string{"s", "py", "pz", "px"}, data.Orbitals)
	assert.True(t, data.SpinPolarized)
}

func TestProjectors_ToString(t *testing.T) {
	got, err := NewProjectors(perovskiteProjectors(1)).ToString(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "projectors:\n    atoms: Sr, Ti, O\n    orbitals: s, py, pz, px", got)
}

func TestProjectors_Select(t *testing.T) {
	proj := NewProjectors(perovskiteProjectors(1))

	got, err := proj.Select(context.Background(), config.Options{SelectionOption: "O(p), 2"})
	require.NoError(t, err)
	assert.Equal(t, []Projection{
		{Label: "O_p", Atoms: []int{2, 3, 4}, Orbitals: []int{1, 2, 3}},
		{Label: "2", Atoms: []int{1}, Orbitals: []int{0, 1, 2, 3}},
	}, got)

	_, err = proj.Select(context.Background(), nil)
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)

	_, err = proj.Select(context.Background(), config.Options{SelectionOption: "  "})
	assert.ErrorAs(t, err, &cfgErr)
}

func TestSelectProjections(t *testing.T) {
	p := perovskiteProjectors(1)

	tests := []struct {
		name      string
		selection string
		want      []Projection
		wantErr   bool
	}{
		{
			name:      "empty",
			selection: "",
			want:      nil,
		},
		{
			name:      "ion type",
			selection: "Ti",
			want:      []Projection{{Label: "Ti", Atoms: []int{1}, Orbitals: []int{0, 1, 2, 3}}},
		},
		{
			name:      "exact orbital wins over prefix",
			selection: "px",
			want:      []Projection{{Label: "px", Atoms: []int{0, 1, 2, 3, 4}, Orbitals: []int{3}}},
		},
		{
			name:      "several orbitals in parentheses",
			selection: "Sr(s, p)",
			want: []Projection{
				{Label: "Sr_s", Atoms: []int{0}, Orbitals: []int{0}},
				{Label: "Sr_p", Atoms: []int{0}, Orbitals: []int{1, 2, 3}},
			},
		},
		{
			name:      "atom index in parentheses",
			selection: " 5(s) ,",
			want:      []Projection{{Label: "5_s", Atoms: []int{4}, Orbitals: []int{0}}},
		},
		{name: "unknown item", selection: "Xe", wantErr: true},
		{name: "atom index out of range", selection: "6", wantErr: true},
		{name: "unknown orbital", selection: "Sr(d)", wantErr: true},
		{name: "unbalanced", selection: "Sr(s", wantErr: true},
		{name: "closing first", selection: "Sr)s(", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectProjections(p, tt.selection)
			if tt.wantErr {
				var cfgErr *errors.ConfigError
				assert.ErrorAs(t, err, &cfgErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
