package urlhandler

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeURL ensures a URL carries a scheme, defaulting to https.
func NormalizeURL(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return trimmed
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	return "https://" + trimmed
}

// ExtractDomain returns the host portion of a URL, or "" when the URL
// cannot be parsed. Callers treat "" as "no per-domain state".
func ExtractDomain(rawURL string) string {
	parsed, err := url.Parse(NormalizeURL(rawURL))
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Host)
}

// ValidateURLFormat checks that a string parses as an absolute http(s) URL.
func ValidateURLFormat(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL %q: scheme must be http or https", rawURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid URL %q: missing host", rawURL)
	}
	return nil
}
