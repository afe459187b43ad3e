package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRawVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    RawVersion
		wantErr bool
	}{
		{in: "6", want: RawVersion{Major: 6}},
		{in: "6.2", want: RawVersion{Major: 6, Minor: 2}},
		{in: "6.4.1", want: RawVersion{Major: 6, Minor: 4, Patch: 1}},
		{in: "v5.4.4", want: RawVersion{Major: 5, Minor: 4, Patch: 4}},
		{in: " 6.3.0 ", want: RawVersion{Major: 6, Minor: 3}},
		{in: "6.2.0-rc1", wantErr: true},
		{in: "six", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRawVersion(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRawVersion_Compare(t *testing.T) {
	older := RawVersion{Major: 5, Minor: 4, Patch: 4}
	newer := RawVersion{Major: 6, Minor: 10}

	assert.True(t, older.Less(MinimalVersion))
	assert.False(t, MinimalVersion.Less(MinimalVersion))
	assert.False(t, newer.Less(MinimalVersion))
	assert.Equal(t, 0, MinimalVersion.Compare(RawVersion{Major: 6, Minor: 2}))
	assert.Equal(t, 1, newer.Compare(RawVersion{Major: 6, Minor: 9, Patch: 99}))
	assert.Equal(t, "6.2.0", MinimalVersion.String())
	assert.True(t, RawVersion{}.IsZero())
}

func TestProjectors_NumberAtoms(t *testing.T) {
	p := Projectors{NumberIonTypes: []int{0, 1, 2, 3, 4}}
	assert.Equal(t, 10, p.NumberAtoms())
}
