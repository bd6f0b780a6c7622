package gateway

import "errors"

// APIError is a structured error body returned by the backend with a non-2xx
// status. Its message is surfaced verbatim in auth and verification flows and
// swallowed everywhere else.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// AsAPIError unwraps err into an *APIError if it is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// UserMessage returns a message fit to show the user: the server's own text
// for structured errors, a generic line for transport failures.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return "network error, try again"
}
