// Package refinement binds named refinement methods of data wrappers to a
// registry that can look them up and call them by name.
package refinement

import (
	"context"
	"sort"
	"sync"

	"github.com/jrbp/p4vasp/application/config"
)

// HandlerFunc is a refinement bound to one data wrapper instance.
type HandlerFunc func(ctx context.Context, opts config.Options) (any, error)

// Definition holds the registered quantities and their refinements.
type Definition struct {
	quantities map[string]*quantityEntry
	mu         sync.RWMutex
}

type quantityEntry struct {
	name        string
	description string
	target      any
	refinements map[string]*refinementEntry
}

type refinementEntry struct {
	name        string
	description string
	handler     HandlerFunc
}

// Info describes a refinement for listings.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// QuantityInfo describes a quantity and its refinements for listings.
type QuantityInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Refinements []Info `json:"refinements"`
}

// NewDefinition creates an empty Definition.
func NewDefinition() *Definition {
	return &Definition{quantities: make(map[string]*quantityEntry)}
}

// RegisterHandler registers a handler for a quantity/refinement.
// Called internally by Register.
func (d *Definition) RegisterHandler(quantity, quantityDesc, name, desc string, target any, handler HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()

	q, ok := d.quantities[quantity]
	if !ok {
		q = &quantityEntry{
			name:        quantity,
			description: quantityDesc,
			target:      target,
			refinements: make(map[string]*refinementEntry),
		}
		d.quantities[quantity] = q
	}

	q.refinements[name] = &refinementEntry{
		name:        name,
		description: desc,
		handler:     handler,
	}
}

// Handler returns the bound handler for the given quantity/refinement.
func (d *Definition) Handler(quantity, name string) (HandlerFunc, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	q, ok := d.quantities[quantity]
	if !ok {
		return nil, false
	}
	r, ok := q.refinements[name]
	if !ok {
		return nil, false
	}
	return r.handler, true
}

// Doc returns the documentation of a refinement.
func (d *Definition) Doc(quantity, name string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	q, ok := d.quantities[quantity]
	if !ok {
		return "", false
	}
	r, ok := q.refinements[name]
	if !ok {
		return "", false
	}
	return r.description, true
}

// Target returns the wrapper instance a quantity was registered from.
func (d *Definition) Target(quantity string) (any, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	q, ok := d.quantities[quantity]
	if !ok {
		return nil, false
	}
	return q.target, true
}

// Quantities lists all quantities and refinements sorted by name.
func (d *Definition) Quantities() []QuantityInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]QuantityInfo, 0, len(d.quantities))
	for _, q := range d.quantities {
		info := QuantityInfo{
			Name:        q.name,
			Description: q.description,
			Refinements: make([]Info, 0, len(q.refinements)),
		}
		for _, r := range q.refinements {
			info.Refinements = append(info.Refinements, Info{Name: r.name, Description: r.description})
		}
		sort.Slice(info.Refinements, func(i, j int) bool {
			return info.Refinements[i].Name < info.Refinements[j].Name
		})
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
