package kaiko

import (
	"errors"
	"fmt"
)

// ErrPaginationLimit is returned (wrapped in a FetchError) when the backend
// keeps signalling more pages past the client's page limit.
var ErrPaginationLimit = errors.New("continuation token did not terminate within the page limit")

// ConfigError reports an invalid query parameter. It is returned before any
// network call is made.
type ConfigError struct {
	Param  string // name of the offending parameter
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("kaiko: invalid %s: %s", e.Param, e.Reason)
}

// FetchError reports a transport failure, a non-2xx HTTP status, or an
// API-level error result. StatusCode and Body are zero when the failure
// happened before a response was received.
type FetchError struct {
	StatusCode int    // HTTP status code, 0 on transport failure
	Body       string // response body or API error message
	Err        error  // underlying transport error, if any
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("kaiko: request failed: %v", e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("kaiko: http %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("kaiko: api error: %s", e.Body)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a response that could not be decoded into the expected
// shape. The whole fetch aborts; no partial result is returned.
type ParseError struct {
	Field string // field or section that failed to parse
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("kaiko: parse %s: %v", e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
