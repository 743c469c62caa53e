package models

// Breadcrumb is a single entry in a page's navigation trail.
type Breadcrumb struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// PageContent holds everything the fetcher extracted from a page that
// downstream stages (classifier, providers, synthesizer) consume.
type PageContent struct {
	// URL is the normalized URL the content was fetched from.
	URL string `json:"url"`
	// PageTitle is the document title, falling back to the URL when the
	// page has no <title>.
	PageTitle string `json:"page_title"`
	// MainText is the cleaned main content with chrome and boilerplate
	// removed, capped at the configured maximum length.
	MainText string `json:"main_text"`
	// ExistingStructuredData carries any JSON-LD blocks already present
	// on the page, pretty-printed when they parse.
	ExistingStructuredData []string `json:"existing_structured_data,omitempty"`
	// Breadcrumbs is the first breadcrumb trail found, if any.
	Breadcrumbs []Breadcrumb `json:"breadcrumbs,omitempty"`
}

// WebsiteProfile carries site-level facts supplied by the operator that
// enrich generated schemas. All fields are optional.
type WebsiteProfile struct {
	CompanyName    string `json:"company_name,omitempty" yaml:"company_name"`
	FounderName    string `json:"founder_name,omitempty" yaml:"founder_name"`
	CompanyLogoURL string `json:"company_logo_url,omitempty" yaml:"company_logo_url"`
}

// IsEmpty reports whether the profile carries no usable facts.
func (p WebsiteProfile) IsEmpty() bool {
	return p.CompanyName == "" && p.FounderName == "" && p.CompanyLogoURL == ""
}
