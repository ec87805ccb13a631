package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

var (
	ErrInvalidResponse       = errors.New("invalid response")
	ErrDescriptionNotFound   = errors.New("description not found")
	ErrScrapeFailure         = errors.New("scrape failure")
	ErrMissingRequiredOption = errors.New("missing required option")
)

// TransportError reports a request that failed on the wire or came back with a status other than 200.
// StatusCode is 0 when no response was received.
type TransportError struct {
	Method     string
	Url        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s failed with status %d", e.Method, e.Url, e.StatusCode)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Method, e.Url, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// EnsureSuccessResponse accepts only 200 OK.
func EnsureSuccessResponse(httpResponse *http.Response) error {
	if httpResponse.StatusCode == http.StatusOK {
		return nil
	}

	transportErr := &TransportError{StatusCode: httpResponse.StatusCode}
	if httpResponse.Request != nil && httpResponse.Request.URL != nil {
		transportErr.Method = httpResponse.Request.Method
		transportErr.Url = stripQuery(httpResponse.Request.URL)
	}
	return transportErr
}

// MissingOption returns ErrMissingRequiredOption naming the absent option.
func MissingOption(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingRequiredOption, name)
}

// stripQuery drops the query string, which can carry the web API key.
func stripQuery(u *url.URL) string {
	stripped := *u
	stripped.RawQuery = ""
	stripped.User = nil
	return stripped.String()
}
