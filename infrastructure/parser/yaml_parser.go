// Package parser converts dataset files to and from YAML dumps.
package parser

import (
	"context"
	"fmt"
	"sort"

	"github.com/jrbp/p4vasp/domain/ports"
	"gopkg.in/yaml.v3"
)

// YamlDumpParser implements DumpParser for YAML.
// A dump is a flat mapping from dataset path to value:
//
//	results/positions/scale: 0.5
//	results/positions/ion_types: [Sr, Ti, O]
type YamlDumpParser struct{}

// NewYamlDumpParser creates a new YamlDumpParser.
func NewYamlDumpParser() ports.DumpParser {
	return &YamlDumpParser{}
}

// Parse unmarshals YAML bytes into a path -> value mapping.
func (p *YamlDumpParser) Parse(data []byte) (map[string]any, error) {
	datasets := map[string]any{}
	if err := yaml.Unmarshal(data, &datasets); err != nil {
		return nil, fmt.Errorf("failed to parse dump: %w", err)
	}
	return datasets, nil
}

// Format marshals a path -> value mapping into YAML with sorted keys.
func (p *YamlDumpParser) Format(datasets map[string]any) ([]byte, error) {
	data, err := yaml.Marshal(datasets)
	if err != nil {
		return nil, fmt.Errorf("failed to format dump: %w", err)
	}
	return data, nil
}

// Import writes every dataset of the dump into store.
func Import(ctx context.Context, store ports.DatasetStore, parser ports.DumpParser, data []byte) (int, error) {
	datasets, err := parser.Parse(data)
	if err != nil {
		return 0, err
	}

	paths := make([]string, 0, len(datasets))
	for path := range datasets {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if err := store.Write(ctx, path, datasets[path]); err != nil {
			return 0, err
		}
	}
	return len(paths), nil
}

// Export reads every dataset below prefix from store into a dump.
func Export(ctx context.Context, store ports.DatasetStore, parser ports.DumpParser, prefix string) ([]byte, error) {
	paths, err := store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	datasets := make(map[string]any, len(paths))
	for _, path := range paths {
		var value any
		if err := store.Read(ctx, path, &value); err != nil {
			return nil, err
		}
		datasets[path] = value
	}
	return parser.Format(datasets)
}
