package pathao

import (
	"errors"
	"fmt"
)

var (
	ErrMissingAccessToken = errors.New("pathao: issue-token response has no access_token")
	ErrEmptyToken         = errors.New("pathao: no access token available")
)

// APIError is returned when Pathao answers with an unexpected HTTP status.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pathao API error: %s returned status code %d, body: %s", e.Endpoint, e.StatusCode, e.Body)
}

// MalformedResponseError is returned when a successful response body is not valid JSON.
type MalformedResponseError struct {
	Endpoint   string
	StatusCode int
	Raw        string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("pathao API error: %s returned non-JSON body (status code %d): %s", e.Endpoint, e.StatusCode, e.Raw)
}
