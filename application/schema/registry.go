package schema

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jrbp/p4vasp/domain/entities"
	"github.com/jrbp/p4vasp/domain/errors"
	"github.com/jrbp/p4vasp/domain/ports"
)

// registryConfig holds configuration for the Registry.
type registryConfig struct {
	strictMode bool // Fail on duplicate registrations
}

func defaultRegistryConfig() registryConfig {
	return registryConfig{
		strictMode: true,
	}
}

// RegistryOption configures a Registry instance.
type RegistryOption func(*registryConfig)

// WithStrictMode enables/disables failing on duplicate registrations.
func WithStrictMode(enabled bool) RegistryOption {
	return func(c *registryConfig) {
		c.strictMode = enabled
	}
}

// Registry implements ports.SchemaRegistry.
type Registry struct {
	config  registryConfig
	mu      sync.RWMutex
	schemas map[string]string
}

var _ ports.SchemaRegistry = (*Registry)(nil)

// NewRegistry creates a new Registry with the given options.
func NewRegistry(opts ...RegistryOption) *Registry {
	cfg := defaultRegistryConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Registry{config: cfg, schemas: make(map[string]string)}
}

// NewRawRegistry returns a registry holding the schemas of all raw data containers.
func NewRawRegistry() (*Registry, error) {
	r := NewRegistry()
	models := map[string]any{
		"dos":        entities.Dos{},
		"band":       entities.Band{},
		"projectors": entities.Projectors{},
		"cell":       entities.Cell{},
	}
	for kind, model := range models {
		if err := r.Register(kind, model); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a schema generated from a Go struct.
func (r *Registry) Register(kind string, model interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[kind]; exists && r.config.strictMode {
		return &errors.SchemaError{Type: kind, Err: fmt.Errorf("already registered")}
	}

	data, err := GenerateSchema(model)
	if err != nil {
		return &errors.SchemaError{Type: kind, Err: err}
	}
	r.schemas[kind] = string(data)
	return nil
}

// GetSchema retrieves the JSON schema for a raw data kind.
func (r *Registry) GetSchema(kind string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schemas[kind]
	return s, ok
}

// List returns all registered kinds in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.schemas))
	for k := range r.schemas {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
