package provider

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/schemaforge/schemaforge/internal/common/errorwrapper"
	"github.com/schemaforge/schemaforge/internal/models"
)

type llmSchemaEntry struct {
	SchemaType  string          `json:"schema_type"`
	Description string          `json:"description"`
	JSONLD      json.RawMessage `json:"json_ld"`
}

type llmSchemaResponse struct {
	Schemas []llmSchemaEntry `json:"schemas"`
}

// parseSchemasResponse turns an LLM completion into schema entries.
// Models sometimes wrap the JSON in markdown fences or surround it with
// prose, so the payload is recovered from the outermost brace window
// before unmarshalling.
func parseSchemasResponse(raw string, requestedTypes []string) ([]models.GeneratedSchema, error) {
	cleaned := stripMarkdownFences(raw)
	cleaned = braceWindow(cleaned)
	if cleaned == "" {
		return nil, errorwrapper.NewError("no JSON object found in provider response")
	}

	var parsed llmSchemaResponse
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to decode provider response")
	}
	if len(parsed.Schemas) == 0 {
		return nil, errorwrapper.NewError("provider returned an empty schema list")
	}

	schemas := make([]models.GeneratedSchema, 0, len(parsed.Schemas))
	for i, entry := range parsed.Schemas {
		schemaType := entry.SchemaType
		if schemaType == "" && i < len(requestedTypes) {
			schemaType = requestedTypes[i]
		}

		jsonLD := strings.TrimSpace(string(entry.JSONLD))
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, []byte(jsonLD), "", "  "); err == nil {
			jsonLD = pretty.String()
		}

		schemas = append(schemas, models.GeneratedSchema{
			SchemaType:  schemaType,
			Description: entry.Description,
			JSONLD:      jsonLD,
		})
	}
	return schemas, nil
}

func stripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// braceWindow returns the substring from the first '{' through the last
// '}', which recovers the payload when the model adds prose around it.
func braceWindow(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
