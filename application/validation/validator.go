// Package validation checks raw data containers against their struct tags.
package validation

import (
	stdErrors "errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jrbp/p4vasp/domain/entities"
	"github.com/jrbp/p4vasp/domain/ports"
)

// validate is a package-level singleton; validator caches struct metadata.
var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(projectorsStructLevel, entities.Projectors{})
	return v
}

// projectorsStructLevel requires one atom count per ion type.
func projectorsStructLevel(sl validator.StructLevel) {
	p := sl.Current().Interface().(entities.Projectors)
	if len(p.NumberIonTypes) != len(p.IonTypes) {
		sl.ReportError(p.NumberIonTypes, "NumberIonTypes", "NumberIonTypes", "len_ion_types", "")
	}
}

// RawValidator implements ports.RawValidator with go-playground/validator.
type RawValidator struct{}

var _ ports.RawValidator = RawValidator{}

// NewRawValidator creates a new validator.
func NewRawValidator() ports.RawValidator {
	return RawValidator{}
}

// Validate checks a raw data container.
func (RawValidator) Validate(raw any) (*entities.ValidationResult, error) {
	return Validate(raw)
}

// Validate checks the struct tags of raw, which must be a struct or a pointer to one.
// Constraint violations are reported in the result; other failures are returned as error.
func Validate(raw any) (*entities.ValidationResult, error) {
	result := &entities.ValidationResult{Valid: true}

	err := validate.Struct(raw)
	if err == nil {
		return result, nil
	}

	var fieldErrs validator.ValidationErrors
	if !stdErrors.As(err, &fieldErrs) {
		return nil, fmt.Errorf("cannot validate %T: %w", raw, err)
	}

	result.Valid = false
	for _, fe := range fieldErrs {
		result.Errors = append(result.Errors, entities.ValidationError{
			Field:   fe.Namespace(),
			Message: message(fe),
		})
	}
	return result, nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "len_ion_types":
		return "must have one entry per ion type"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "gt", "gte", "lt", "lte", "min", "max":
		return fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
