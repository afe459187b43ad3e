// Package schema generates JSON schemas describing raw data containers.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// GenerateSchema creates the JSON schema of a raw data container. The
// container's own fields are inlined at the top level; nested containers
// such as the cell of a band structure land in $defs. Schemas carry no $id
// since the Registry looks them up by kind.
func GenerateSchema(v interface{}) ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
		Anonymous:      true,
	}
	schema := reflector.Reflect(v)

	jsonBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	return jsonBytes, nil
}
