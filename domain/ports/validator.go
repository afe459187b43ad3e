package ports

import "github.com/jrbp/p4vasp/domain/entities"

// RawValidator checks raw data containers for structural consistency.
type RawValidator interface {
	// Validate reports every field of raw that violates its constraints.
	Validate(raw any) (*entities.ValidationResult, error)
}
