package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jrbp/p4vasp/domain/errors"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// writeResult prints a refinement result. Text output prints strings as is
// and everything else as JSON.
func writeResult(w io.Writer, result any, format string) error {
	switch format {
	case formatText:
		if s, ok := result.(string); ok {
			_, err := fmt.Fprintln(w, s)
			return err
		}
		fallthrough
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	default:
		return &errors.ConfigError{Field: "format", Err: fmt.Errorf("unknown format %q", format)}
	}
}
