// Package schemas validates LLM-produced JSON against embedded JSON Schemas
// before it is trusted by the rest of the pipeline.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed plan.schema.json
var planSchema []byte

// ValidatePlanJSON checks a raw model response against the content plan
// schema. Returns a descriptive error listing every schema violation.
func ValidatePlanJSON(data []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(planSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed to run: %w", err)
	}

	if result.Valid() {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("plan JSON does not match schema:")
	for _, desc := range result.Errors() {
		sb.WriteString(fmt.Sprintf("\n  - %s: %s", desc.Field(), desc.Description()))
	}
	return fmt.Errorf("%s", sb.String())
}
