package provider

import (
	"fmt"
	"strings"
)

const promptTextMaxChars = 6000

// buildPrompt renders the shared prompt used by all LLM providers. The
// contract is strict: one schema per requested type, in order, and no
// property whose value does not come from the page text or the supplied
// website profile.
func buildPrompt(req Request) string {
	types := req.RequestedTypes()

	var b strings.Builder
	b.WriteString("You are a structured-data specialist. Generate schema.org JSON-LD for the page below.\n\n")

	fmt.Fprintf(&b, "Page URL: %s\n", req.URL)
	if req.Profile.CompanyName != "" {
		fmt.Fprintf(&b, "Company name: %s\n", req.Profile.CompanyName)
	}
	if req.Profile.FounderName != "" {
		fmt.Fprintf(&b, "Founder name: %s\n", req.Profile.FounderName)
	}
	if req.Profile.CompanyLogoURL != "" {
		fmt.Fprintf(&b, "Company logo URL: %s\n", req.Profile.CompanyLogoURL)
	}

	b.WriteString("\nPage content:\n---\n")
	b.WriteString(truncateText(req.MainText, promptTextMaxChars))
	b.WriteString("\n---\n")

	if len(req.ExistingStructuredData) > 0 {
		b.WriteString("\nStructured data already on the page (do not duplicate it verbatim):\n")
		for _, block := range req.ExistingStructuredData {
			b.WriteString(truncateText(block, 1500))
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "\nGenerate exactly %d schema(s), one per type, in this exact order: %s.\n\n", len(types), strings.Join(types, ", "))

	b.WriteString(`Rules:
1. Every property value must come from the page content or the company details above. Never invent names, dates, prices, ratings, or any other value.
2. Omit any property you cannot fill from those sources. No null, empty, or placeholder values.
3. Each json_ld document must have "@context": "https://schema.org" and "@type" matching the requested type.
4. Respond with ONLY a JSON object in this shape, no prose and no markdown fences:
{"schemas": [{"schema_type": "<requested type>", "description": "<one sentence on what the schema covers>", "json_ld": { ... }}]}
`)

	return b.String()
}

func truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "\n[content truncated]"
}
