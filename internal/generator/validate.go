package generator

import (
	"encoding/json"
	"strings"

	"github.com/schemaforge/schemaforge/internal/models"
	"github.com/schemaforge/schemaforge/internal/validation"
)

// diagnosticWrapper replaces unparseable provider output so the raw
// content is preserved for user inspection instead of being dropped.
type diagnosticWrapper struct {
	Error string `json:"error"`
	Raw   string `json:"raw"`
}

// validateSchemas grades every schema and stamps its validation status.
// Entries are never dropped: parse failures become invalid entries
// carrying a diagnostic wrapper as their JSON-LD.
func (g *Generator) validateSchemas(schemas []models.GeneratedSchema) ([]models.GeneratedSchema, map[string]models.ValidationResult) {
	results := make(map[string]models.ValidationResult, len(schemas))
	out := make([]models.GeneratedSchema, 0, len(schemas))

	for _, schema := range schemas {
		var parsed interface{}
		if err := json.Unmarshal([]byte(schema.JSONLD), &parsed); err != nil {
			wrapper, _ := json.MarshalIndent(diagnosticWrapper{
				Error: "schema is not valid JSON: " + err.Error(),
				Raw:   schema.JSONLD,
			}, "", "  ")
			schema.JSONLD = string(wrapper)
			schema.ValidationStatus = models.ValidationInvalid
			schema.ValidationError = "generated content is not valid JSON"
			results[schema.SchemaType] = models.ValidationResult{
				IsValid: false,
				Errors:  []string{"generated content is not valid JSON: " + err.Error()},
			}
			out = append(out, schema)
			continue
		}

		result := validation.Validate(parsed, schema.SchemaType)
		results[schema.SchemaType] = result

		if result.IsValid {
			schema.ValidationStatus = models.ValidationValid
			schema.ValidationError = ""
		} else {
			schema.ValidationStatus = models.ValidationInvalid
			schema.ValidationError = strings.Join(result.Errors, "; ")
		}
		out = append(out, schema)
	}

	return out, results
}
