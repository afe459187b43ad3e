// Package entities provides the raw data model of a VASP calculation.
// Raw containers mirror the datasets stored in the output file one to one;
// any interpretation of the numbers happens in the refinement layer.
package entities
