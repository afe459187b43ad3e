package entities

// ValidationResult represents the outcome of validating a raw data container.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// ValidationError represents a single field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}
