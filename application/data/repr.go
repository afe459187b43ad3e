package data

import (
	"bytes"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jrbp/p4vasp/domain/entities"
	"gopkg.in/yaml.v3"
)

// Repr returns an expression that Eval turns back into an equivalent quantity:
// Dos.FromFile(), Dos.FromFile("path") or Dos.FromRaw({...}). Raw data is
// JSON, or flow-style YAML when it holds NaN or infinite values.
func (b *Base[R]) Repr() string {
	if b.source != nil {
		if p := b.source.Path(); p != "" {
			return fmt.Sprintf("%s.FromFile(%s)", b.Kind(), strconv.Quote(p))
		}
		return b.Kind() + ".FromFile()"
	}

	data, err := json.Marshal(b.raw)
	var unsupported *json.UnsupportedValueError
	if stdErrors.As(err, &unsupported) {
		data, err = flowYAML(b.raw)
	}
	if err != nil {
		return fmt.Sprintf("%s.FromRaw(<%v>)", b.Kind(), err)
	}
	return fmt.Sprintf("%s.FromRaw(%s)", b.Kind(), data)
}

// flowYAML encodes v on a single line; YAML spells non-finite floats
// .nan, .inf and -.inf.
func flowYAML(v any) ([]byte, error) {
	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return nil, err
	}
	setFlowStyle(&node)
	data, err := yaml.Marshal(&node)
	if err != nil {
		return nil, err
	}
	return bytes.TrimSpace(data), nil
}

func setFlowStyle(n *yaml.Node) {
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style = yaml.FlowStyle
	}
	for _, c := range n.Content {
		setFlowStyle(c)
	}
}

var reprPattern = regexp.MustCompile(`(?s)^\s*([A-Za-z]+)\.(FromFile|FromRaw)\((.*)\)\s*$`)

type factory struct {
	fromRaw  func(data []byte, opts ...Option) (Quantity, error)
	fromFile func(source Source, opts ...Option) Quantity
}

func newFactory[R entities.Raw, Q Quantity](
	fromRaw func(raw *R, opts ...Option) Q,
	fromFile func(source Source, opts ...Option) Q,
) factory {
	return factory{
		fromRaw: func(data []byte, opts ...Option) (Quantity, error) {
			var raw *R
			if err := json.Unmarshal(data, &raw); err != nil {
				raw = nil
				if yamlErr := yaml.Unmarshal(data, &raw); yamlErr != nil {
					return nil, err
				}
			}
			return fromRaw(raw, opts...), nil
		},
		fromFile: func(source Source, opts ...Option) Quantity {
			return fromFile(source, opts...)
		},
	}
}

var factories = map[string]factory{
	"Dos":        newFactory(NewDos, DosFromFile),
	"Band":       newFactory(NewBand, BandFromFile),
	"Cell":       newFactory(NewCell, CellFromFile),
	"Projectors": newFactory(NewProjectors, ProjectorsFromFile),
}

// Kinds lists the quantity kinds Eval understands.
func Kinds() []string {
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Eval reconstructs a quantity from its Repr. opts configure the new quantity.
func Eval(repr string, opts ...Option) (Quantity, error) {
	m := reprPattern.FindStringSubmatch(repr)
	if m == nil {
		return nil, fmt.Errorf("cannot evaluate %q: not a quantity representation", repr)
	}
	f, ok := factories[m[1]]
	if !ok {
		return nil, fmt.Errorf("cannot evaluate %q: unknown quantity %s", repr, m[1])
	}

	arg := strings.TrimSpace(m[3])
	if m[2] == "FromRaw" {
		q, err := f.fromRaw([]byte(arg), opts...)
		if err != nil {
			return nil, fmt.Errorf("cannot evaluate %q: %w", repr, err)
		}
		return q, nil
	}

	if arg == "" {
		return f.fromFile(DefaultFile(), opts...), nil
	}
	path, err := strconv.Unquote(arg)
	if err != nil {
		return nil, fmt.Errorf("cannot evaluate %q: path must be a quoted string", repr)
	}
	return f.fromFile(FilePath(path), opts...), nil
}
