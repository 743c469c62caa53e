package fetcher

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a terminal fetch failure after every transport
// strategy and the browser fallback have been exhausted.
type ErrorKind string

const (
	KindTimeout     ErrorKind = "timeout"
	KindNotFound    ErrorKind = "not_found"
	KindForbidden   ErrorKind = "forbidden"
	KindUnavailable ErrorKind = "unavailable"
)

// FetchError is the single error type surfaced by the fetcher. The
// documented recovery path for every kind is to accept manually supplied
// text content instead of fetched content.
type FetchError struct {
	Kind    ErrorKind
	URL     string
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed for %s (%s): %s", e.URL, e.Kind, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError extracts a *FetchError from an error chain.
func IsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// ClassifyError maps the last underlying transport error onto one of the
// four user-facing kinds by substring matching, each with an actionable
// message.
func ClassifyError(url string, err error) *FetchError {
	message := ""
	if err != nil {
		message = strings.ToLower(err.Error())
	}

	switch {
	case strings.Contains(message, "timeout") ||
		strings.Contains(message, "deadline exceeded") ||
		strings.Contains(message, "timed out"):
		return &FetchError{
			Kind:    KindTimeout,
			URL:     url,
			Message: "the page took too long to respond; try again later or paste the page text manually",
			Err:     err,
		}
	case strings.Contains(message, "404") || strings.Contains(message, "not found"):
		return &FetchError{
			Kind:    KindNotFound,
			URL:     url,
			Message: "the page could not be found; check the URL or paste the page text manually",
			Err:     err,
		}
	case strings.Contains(message, "403") ||
		strings.Contains(message, "forbidden") ||
		strings.Contains(message, "bot") ||
		strings.Contains(message, "challenge") ||
		strings.Contains(message, "captcha"):
		return &FetchError{
			Kind:    KindForbidden,
			URL:     url,
			Message: "the site blocks automated access; paste the page text manually",
			Err:     err,
		}
	default:
		return &FetchError{
			Kind:    KindUnavailable,
			URL:     url,
			Message: "the page could not be reached through any transport; paste the page text manually",
			Err:     err,
		}
	}
}
