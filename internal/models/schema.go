package models

import "time"

// Supported schema.org types. Candidate lists and validation tables are
// keyed by these exact strings.
const (
	TypeArticle       = "Article"
	TypeBlogPosting   = "BlogPosting"
	TypeProduct       = "Product"
	TypeRecipe        = "Recipe"
	TypeFAQPage       = "FAQPage"
	TypeHowTo         = "HowTo"
	TypeLocalBusiness = "LocalBusiness"
	TypeEvent         = "Event"
	TypeReview        = "Review"
	TypeTestimonial   = "Testimonial"
)

// ValidationStatus marks whether a generated schema passed structural
// validation.
type ValidationStatus string

const (
	ValidationValid   ValidationStatus = "valid"
	ValidationInvalid ValidationStatus = "invalid"
)

// GeneratedSchema is one JSON-LD document produced by a provider or the
// synthesizer, together with its validation outcome.
type GeneratedSchema struct {
	SchemaType       string           `json:"schema_type"`
	Description      string           `json:"description,omitempty"`
	JSONLD           string           `json:"json_ld"`
	ValidationStatus ValidationStatus `json:"validation_status"`
	ValidationError  string           `json:"validation_error,omitempty"`
}

// ValidationResult is the detailed outcome of validating a single schema.
type ValidationResult struct {
	IsValid     bool     `json:"is_valid"`
	Errors      []string `json:"errors,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// GenerationResult is the orchestrator's final answer for one page.
type GenerationResult struct {
	Schemas           []GeneratedSchema           `json:"schemas"`
	Provider          string                      `json:"provider"`
	ProcessingTime    time.Duration               `json:"processing_time"`
	ValidationResults map[string]ValidationResult `json:"validation_results,omitempty"`
}
