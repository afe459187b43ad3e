// Package p4vasp post-processes the output of VASP calculations.
//
// A Calculation bundles the quantities stored in the output file of one
// calculation directory. Each quantity reads its raw data lazily, so the file
// is opened only while a refinement runs:
//
//	calc, err := p4vasp.FromPath("~/calculations/SrTiO3")
//	if err != nil {
//		return err
//	}
//	dos, err := calc.Dos.Read(ctx, p4vasp.Options{"selection": "Ti(d), O(p)"})
//
// Quantities can also be built directly from raw data or from a single file
// with the constructors in the data package.
package p4vasp

import (
	"github.com/jrbp/p4vasp/application/calculation"
	"github.com/jrbp/p4vasp/application/config"
	"github.com/jrbp/p4vasp/application/data"
)

// Version of the library.
const Version = "0.1.0"

// Calculation is the set of quantities of one VASP calculation.
type Calculation = calculation.Calculation

// Options are keyword arguments passed through to refinements.
type Options = config.Options

// Quantity is a data wrapper around one raw quantity.
type Quantity = data.Quantity

// FromPath attaches a calculation in the given directory.
func FromPath(path string, opts ...calculation.Option) (*Calculation, error) {
	return calculation.FromPath(path, opts...)
}

// Eval reconstructs a quantity from the string returned by its Repr method.
func Eval(repr string, opts ...data.Option) (Quantity, error) {
	return data.Eval(repr, opts...)
}
