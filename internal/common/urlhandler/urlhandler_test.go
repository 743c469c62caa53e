package urlhandler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "bare domain gets https", input: "example.com", expected: "https://example.com"},
		{name: "http preserved", input: "http://example.com", expected: "http://example.com"},
		{name: "https preserved", input: "https://example.com/page", expected: "https://example.com/page"},
		{name: "whitespace trimmed", input: "  example.com  ", expected: "https://example.com"},
		{name: "empty stays empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeURL(tt.input))
		})
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "full url", input: "https://Example.COM/path?q=1", expected: "example.com"},
		{name: "bare domain", input: "example.com", expected: "example.com"},
		{name: "with port", input: "https://example.com:8443/x", expected: "example.com:8443"},
		{name: "unparseable", input: "https://exa mple.com/%zz", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractDomain(tt.input))
		})
	}
}

func TestValidateURLFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid https", input: "https://example.com/page", wantErr: false},
		{name: "valid http", input: "http://example.com", wantErr: false},
		{name: "missing scheme", input: "example.com/page", wantErr: true},
		{name: "unsupported scheme", input: "ftp://example.com", wantErr: true},
		{name: "missing host", input: "https://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURLFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
