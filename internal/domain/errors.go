package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateRecipe = errors.New("recipe URL is already saved")
)

// ValidationError reports a missing or malformed URL. No network call is made.
type ValidationError struct {
	URL    string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid URL %q: %s", e.URL, e.Reason)
}

// FetchError reports a transport failure (DNS, connect, timeout) reaching the target.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// HTTPError reports a non-2xx response from the target.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d for URL: %s", e.StatusCode, e.URL)
}

// OutcomeOf maps an extraction error to its Outcome. A nil error is not classified here.
func OutcomeOf(err error) Outcome {
	var (
		ve *ValidationError
		fe *FetchError
		he *HTTPError
	)
	switch {
	case errors.As(err, &ve):
		return OutcomeInvalid
	case errors.As(err, &he):
		return OutcomeHTTPError
	case errors.As(err, &fe):
		return OutcomeFetchError
	default:
		return OutcomeFailed
	}
}
