package ports

// SchemaRegistry manages JSON schemas for raw data kinds.
type SchemaRegistry interface {
	// Register adds a schema generated from a Go struct.
	Register(kind string, model interface{}) error

	// GetSchema retrieves the JSON Schema for a raw data kind.
	GetSchema(kind string) (string, bool)

	// List returns all registered kinds in sorted order.
	List() []string
}
