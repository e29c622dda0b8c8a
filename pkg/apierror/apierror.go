package apierror

import "fmt"

// APIError is an error that already knows which HTTP status it maps to.
// Handlers unwrap it with errors.As and write Message to the client verbatim.
type APIError struct {
	Code       string
	Message    string
	HTTPStatus int
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code string, message string, status int) *APIError {
	return &APIError{Code: code, Message: message, HTTPStatus: status}
}
