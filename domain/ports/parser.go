package ports

// DumpParser converts between a textual dump and dataset path/value pairs.
type DumpParser interface {
	// Parse unmarshals a dump into a path -> value mapping.
	Parse(data []byte) (map[string]any, error)

	// Format marshals a path -> value mapping into a dump.
	Format(datasets map[string]any) ([]byte, error)
}
