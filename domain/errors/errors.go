// Package errors provides domain-specific error types for p4vasp.
// All error types support error unwrapping via errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/jrbp/p4vasp/domain/entities"
)

// Sentinels for errors.Is checks against the typed errors below.
var (
	ErrOutdatedVersion = stdErrors.New("outdated vasp version")
	ErrNoData          = stdErrors.New("no data")
	ErrNotFound        = stdErrors.New("not found")
)

// ErrorDetail is an alias to entities.ErrorDetail for convenience.
type ErrorDetail = entities.ErrorDetail

// DetailedError is implemented by error types that can describe themselves
// as a structured ErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to our structured ErrorDetail.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	return entities.NewErrorDetail("internal", err.Error())
}

// OutdatedVersionError is returned when raw data was written by a VASP version
// older than the minimum the refinements support.
type OutdatedVersionError struct {
	Quantity string
	Version  entities.RawVersion
	Minimum  entities.RawVersion
}

func (e *OutdatedVersionError) Error() string {
	return fmt.Sprintf("%s: data written by VASP %s, but at least VASP %s is required; please rerun with a newer version",
		e.Quantity, e.Version, e.Minimum)
}

func (e *OutdatedVersionError) Is(target error) bool {
	return target == ErrOutdatedVersion
}

// ToErrorDetail implements DetailedError.
func (e *OutdatedVersionError) ToErrorDetail() *entities.ErrorDetail {
	return entities.NewErrorDetail("version", e.Error()).
		WithCode("outdated_version").
		WithDetails(map[string]any{"version": e.Version.String(), "minimum": e.Minimum.String()})
}

// NoDataError is returned when the requested quantity is absent.
type NoDataError struct {
	Quantity string
	Source   string
}

func (e *NoDataError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("no %s data found in %s; check that VASP was set up to write it", e.Quantity, e.Source)
	}
	return fmt.Sprintf("no %s data available", e.Quantity)
}

func (e *NoDataError) Is(target error) bool {
	return target == ErrNoData
}

// ToErrorDetail implements DetailedError.
func (e *NoDataError) ToErrorDetail() *entities.ErrorDetail {
	detail := entities.NewErrorDetail("data", e.Error()).WithCode("no_data")
	detail.IsNotFound = true
	return detail
}

// InvalidDataError is returned when raw data fails structural validation.
type InvalidDataError struct {
	Quantity string
	Fields   []entities.ValidationError
}

func (e *InvalidDataError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return fmt.Sprintf("invalid %s data: %s", e.Quantity, strings.Join(msgs, "; "))
}

// ToErrorDetail implements DetailedError.
func (e *InvalidDataError) ToErrorDetail() *entities.ErrorDetail {
	fields := make(map[string]any, len(e.Fields))
	for _, f := range e.Fields {
		fields[f.Field] = f.Message
	}
	return entities.NewErrorDetail("validation", e.Error()).WithCode("invalid_data").WithDetails(fields)
}

// FileError represents a failure to open, read or close a dataset file.
type FileError struct {
	Err  error
	Op   string
	Path string
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *FileError) ToErrorDetail() *entities.ErrorDetail {
	detail := entities.NewErrorDetail("file", e.Op+" "+e.Path).WithCode(e.Op)
	detail.Wrapped = ToErrorDetail(e.Err)
	detail.IsNotFound = stdErrors.Is(e.Err, ErrNotFound)
	return detail
}

// DatasetError represents a dataset that is missing or cannot be decoded.
type DatasetError struct {
	Err  error
	Path string
}

func (e *DatasetError) Error() string {
	return fmt.Sprintf("dataset %s: %v", e.Path, e.Err)
}

func (e *DatasetError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether the dataset does not exist.
func (e *DatasetError) IsNotFound() bool {
	return stdErrors.Is(e.Err, ErrNotFound)
}

// ToErrorDetail implements DetailedError.
func (e *DatasetError) ToErrorDetail() *entities.ErrorDetail {
	detail := entities.NewErrorDetail("dataset", e.Path).WithCode("dataset")
	detail.Wrapped = ToErrorDetail(e.Err)
	detail.IsNotFound = e.IsNotFound()
	return detail
}

// RefinementError represents an unknown or malformed refinement.
type RefinementError struct {
	Err        error
	Quantity   string
	Refinement string
}

func (e *RefinementError) Error() string {
	if e.Refinement != "" {
		return fmt.Sprintf("refinement %s.%s: %v", e.Quantity, e.Refinement, e.Err)
	}
	return fmt.Sprintf("quantity %s: %v", e.Quantity, e.Err)
}

func (e *RefinementError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *RefinementError) ToErrorDetail() *entities.ErrorDetail {
	return entities.NewErrorDetail("refinement", e.Error()).WithCode(e.Refinement)
}

// ConfigError represents an invalid option passed to a refinement or command.
type ConfigError struct {
	Err   error
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config validation failed: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ConfigError) ToErrorDetail() *entities.ErrorDetail {
	return entities.NewErrorDetail("config", e.Error()).WithCode(e.Field)
}

// SchemaError represents a schema generation error.
type SchemaError struct {
	Err  error
	Type string
}

func (e *SchemaError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("schema error for type %s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("schema error: %v", e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *SchemaError) ToErrorDetail() *entities.ErrorDetail {
	return entities.NewErrorDetail("validation", e.Error()).WithCode("schema")
}

// FormatError is returned for image formats that cannot be written.
type FormatError struct {
	Filename  string
	Extension string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cannot write %s: unsupported image format %q", e.Filename, e.Extension)
}

// ToErrorDetail implements DetailedError.
func (e *FormatError) ToErrorDetail() *entities.ErrorDetail {
	return entities.NewErrorDetail("config", e.Error()).WithCode("image_format")
}
