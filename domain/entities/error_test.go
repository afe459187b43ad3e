package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorDetail_Error(t *testing.T) {
	tests := []struct {
		name   string
		detail *ErrorDetail
		want   string
	}{
		{name: "nil", detail: nil, want: ""},
		{name: "internal", detail: NewErrorDetail("internal", "boom"), want: "boom"},
		{name: "typed", detail: NewErrorDetail("data", "no dos data available"), want: "data: no dos data available"},
		{
			name:   "with code",
			detail: NewErrorDetail("config", "unknown format").WithCode("format"),
			want:   "config: unknown format [format]",
		},
		{
			name: "wrapped",
			detail: &ErrorDetail{
				Type:    "file",
				Message: "open vaspout.db",
				Wrapped: NewErrorDetail("dataset", "not found"),
			},
			want: "file: open vaspout.db: dataset: not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.detail.Error())
		})
	}
}

func TestErrorDetail_WithDetails(t *testing.T) {
	d := NewErrorDetail("version", "outdated").WithDetails(map[string]any{"minimum": "6.2.0"})
	assert.Equal(t, "6.2.0", d.Details["minimum"])
}
