package validation

import (
	"fmt"
	"strings"

	"github.com/schemaforge/schemaforge/internal/models"
)

// fieldTable lists the required and recommended properties for one
// schema.org type. Required absences invalidate the schema; recommended
// absences only warn.
type fieldTable struct {
	required    []string
	recommended []string
}

var fieldTables = map[string]fieldTable{
	models.TypeArticle: {
		required:    []string{"headline", "author", "datePublished"},
		recommended: []string{"image", "publisher", "dateModified", "description"},
	},
	models.TypeBlogPosting: {
		required:    []string{"headline", "author", "datePublished"},
		recommended: []string{"image", "publisher", "dateModified", "description"},
	},
	models.TypeProduct: {
		required:    []string{"name"},
		recommended: []string{"image", "description", "offers", "brand", "aggregateRating"},
	},
	models.TypeRecipe: {
		required:    []string{"name", "description", "recipeIngredient", "recipeInstructions"},
		recommended: []string{"image", "prepTime", "cookTime", "totalTime", "recipeYield", "nutrition"},
	},
	models.TypeFAQPage: {
		required:    []string{"mainEntity"},
		recommended: []string{"name", "description"},
	},
	models.TypeHowTo: {
		required:    []string{"name", "step"},
		recommended: []string{"description", "totalTime", "image", "supply", "tool"},
	},
	models.TypeLocalBusiness: {
		required:    []string{"name"},
		recommended: []string{"address", "telephone", "openingHours", "image", "priceRange"},
	},
	models.TypeEvent: {
		required:    []string{"name", "startDate", "location"},
		recommended: []string{"endDate", "description", "image", "offers", "organizer"},
	},
	models.TypeReview: {
		required:    []string{"itemReviewed", "reviewRating", "author"},
		recommended: []string{"reviewBody", "datePublished"},
	},
	models.TypeTestimonial: {
		required:    []string{"reviewBody", "author"},
		recommended: []string{"itemReviewed", "datePublished"},
	},
}

// Validate checks a parsed JSON-LD document against the field table for
// the requested type. It is a pure function: no I/O, no shared state.
func Validate(schema interface{}, requestedType string) models.ValidationResult {
	result := models.ValidationResult{IsValid: true}

	obj, ok := schema.(map[string]interface{})
	if !ok {
		result.IsValid = false
		result.Errors = append(result.Errors, "schema is not a JSON object")
		return result
	}

	checkContext(obj, &result)
	checkType(obj, requestedType, &result)

	table, known := fieldTables[requestedType]
	if known {
		for _, field := range table.required {
			if isAbsent(obj[field]) {
				result.IsValid = false
				result.Errors = append(result.Errors, fmt.Sprintf("required field '%s' is missing for type %s", field, requestedType))
			}
		}
		for _, field := range table.recommended {
			if isAbsent(obj[field]) {
				result.Warnings = append(result.Warnings, fmt.Sprintf("recommended field '%s' is missing for type %s", field, requestedType))
			}
		}
	}

	checkValueShapes(obj, &result)
	addSuggestions(obj, &result)

	return result
}

func checkContext(obj map[string]interface{}, result *models.ValidationResult) {
	raw, ok := obj["@context"]
	if !ok {
		result.IsValid = false
		result.Errors = append(result.Errors, "missing @context")
		return
	}
	if contextReferencesSchemaOrg(raw) {
		return
	}
	result.IsValid = false
	result.Errors = append(result.Errors, "@context does not reference schema.org")
}

// contextReferencesSchemaOrg accepts both the common string form and the
// array form of @context, as long as some string element names schema.org.
func contextReferencesSchemaOrg(raw interface{}) bool {
	switch ctx := raw.(type) {
	case string:
		return strings.Contains(ctx, "schema.org")
	case []interface{}:
		for _, item := range ctx {
			if s, ok := item.(string); ok && strings.Contains(s, "schema.org") {
				return true
			}
		}
	}
	return false
}

// checkType accepts both scalar and array @type values.
func checkType(obj map[string]interface{}, requestedType string, result *models.ValidationResult) {
	raw, ok := obj["@type"]
	if !ok {
		result.IsValid = false
		result.Errors = append(result.Errors, "missing @type")
		return
	}
	if typeMatches(raw, requestedType) {
		return
	}
	result.IsValid = false
	result.Errors = append(result.Errors, fmt.Sprintf("@type does not match requested type %s", requestedType))
}

func typeMatches(raw interface{}, requestedType string) bool {
	switch v := raw.(type) {
	case string:
		return v == requestedType
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && s == requestedType {
				return true
			}
		}
	}
	return false
}

func checkValueShapes(obj map[string]interface{}, result *models.ValidationResult) {
	for _, field := range []string{"name", "description"} {
		if raw, ok := obj[field]; ok {
			if _, isString := raw.(string); !isString {
				result.Warnings = append(result.Warnings, fmt.Sprintf("field '%s' should be a string", field))
			}
		}
	}
	if raw, ok := obj["url"]; ok {
		if s, isString := raw.(string); isString && !strings.HasPrefix(s, "http") {
			result.Warnings = append(result.Warnings, "field 'url' should start with http")
		}
	}
}

func addSuggestions(obj map[string]interface{}, result *models.ValidationResult) {
	if isAbsent(obj["description"]) {
		result.Suggestions = append(result.Suggestions, "add a description to improve search appearance")
	}
	if isAbsent(obj["image"]) {
		result.Suggestions = append(result.Suggestions, "add an image for rich results eligibility")
	}
}

func isAbsent(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []interface{}:
		return len(v) == 0
	case map[string]interface{}:
		return len(v) == 0
	}
	return false
}
