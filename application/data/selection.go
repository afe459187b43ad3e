package data

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jrbp/p4vasp/application/config"
	"github.com/jrbp/p4vasp/domain/entities"
	"github.com/jrbp/p4vasp/domain/errors"
)

// SelectionOption is the refinement option holding a projection selection.
const SelectionOption = "selection"

// Projection is one selected combination of atoms and orbitals.
// Atoms and Orbitals are 0-based indices into the projections array.
type Projection struct {
	Label    string `json:"label"`
	Atoms    []int  `json:"atoms"`
	Orbitals []int  `json:"orbitals"`
}

// SelectProjections parses a selection such as "Sr, p, Ti(s d), 3".
//
// Items are separated by commas. An item is an ion type, a 1-based atom
// index or an orbital; "atoms(orbitals)" restricts the atoms to the given
// orbitals and yields one projection per orbital. An orbital matches its
// exact name or, failing that, every orbital starting with it, so "p" sums
// px, py and pz.
func SelectProjections(p *entities.Projectors, selection string) ([]Projection, error) {
	items, err := splitSelection(selection)
	if err != nil {
		return nil, err
	}

	var out []Projection
	for _, item := range items {
		atomPart, orbitalPart, hasOrbitals := cutParens(item)
		if !hasOrbitals {
			proj, err := selectItem(p, item)
			if err != nil {
				return nil, err
			}
			out = append(out, proj)
			continue
		}

		atoms, ok := selectAtoms(p, atomPart)
		if !ok {
			return nil, selectionError(fmt.Errorf("unknown atom %q", atomPart))
		}
		for _, name := range strings.Fields(strings.ReplaceAll(orbitalPart, ",", " ")) {
			orbitals, ok := selectOrbitals(p, name)
			if !ok {
				return nil, selectionError(fmt.Errorf("unknown orbital %q", name))
			}
			out = append(out, Projection{Label: atomPart + "_" + name, Atoms: atoms, Orbitals: orbitals})
		}
	}
	return out, nil
}

func selectItem(p *entities.Projectors, item string) (Projection, error) {
	if atoms, ok := selectAtoms(p, item); ok {
		return Projection{Label: item, Atoms: atoms, Orbitals: indices(len(p.OrbitalTypes))}, nil
	}
	if orbitals, ok := selectOrbitals(p, item); ok {
		return Projection{Label: item, Atoms: indices(p.NumberAtoms()), Orbitals: orbitals}, nil
	}
	return Projection{}, selectionError(fmt.Errorf("unknown atom or orbital %q", item))
}

// selectAtoms resolves an ion type or a 1-based atom index.
func selectAtoms(p *entities.Projectors, name string) ([]int, bool) {
	start := 0
	for i, ionType := range p.IonTypes {
		if ionType == name {
			return rangeIndices(start, start+p.NumberIonTypes[i]), true
		}
		start += p.NumberIonTypes[i]
	}

	n, err := strconv.Atoi(name)
	if err != nil || n < 1 || n > p.NumberAtoms() {
		return nil, false
	}
	return []int{n - 1}, true
}

func selectOrbitals(p *entities.Projectors, name string) ([]int, bool) {
	for i, orbital := range p.OrbitalTypes {
		if orbital == name {
			return []int{i}, true
		}
	}
	var out []int
	for i, orbital := range p.OrbitalTypes {
		if strings.HasPrefix(orbital, name) {
			out = append(out, i)
		}
	}
	return out, len(out) > 0
}

// splitSelection splits at commas outside of parentheses.
func splitSelection(selection string) ([]string, error) {
	var items []string
	depth, start := 0, 0
	for i, r := range selection {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, selectionError(fmt.Errorf("unbalanced parentheses in %q", selection))
			}
		case ',':
			if depth == 0 {
				items = appendItem(items, selection[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, selectionError(fmt.Errorf("unbalanced parentheses in %q", selection))
	}
	return appendItem(items, selection[start:]), nil
}

func appendItem(items []string, item string) []string {
	if item = strings.TrimSpace(item); item != "" {
		items = append(items, item)
	}
	return items
}

func cutParens(item string) (outer, inner string, ok bool) {
	open := strings.IndexByte(item, '(')
	if open < 0 || !strings.HasSuffix(item, ")") {
		return item, "", false
	}
	return strings.TrimSpace(item[:open]), item[open+1 : len(item)-1], true
}

func selectionError(err error) error {
	return &errors.ConfigError{Field: SelectionOption, Err: err}
}

// selectionFromOptions resolves the selection option against projectors.
// No selection yields no projections; a selection without projectors is NoData.
func selectionFromOptions(quantity string, p *entities.Projectors, hasProjections bool, opts config.Options) ([]Projection, error) {
	selection, ok := config.GetString(opts, SelectionOption)
	if !ok || strings.TrimSpace(selection) == "" {
		return nil, nil
	}
	if p == nil || !hasProjections {
		return nil, &errors.NoDataError{Quantity: quantity + " projections"}
	}
	return SelectProjections(p, selection)
}

func indices(n int) []int {
	return rangeIndices(0, n)
}

func rangeIndices(start, stop int) []int {
	out := make([]int, 0, stop-start)
	for i := start; i < stop; i++ {
		out = append(out, i)
	}
	return out
}
