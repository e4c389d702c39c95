package lingq

import (
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrCreationFailed  = errors.New("creation failed")
	ErrRequestFailed   = errors.New("request failed")
	ErrInvalidResponse = errors.New("invalid response shape")
	ErrNoLesson        = errors.New("no current lesson")
	ErrInvalidIndex    = errors.New("sentence index must be 1 or greater")
)

// APIError is returned when LingQ answers with a non-2xx status.
type APIError struct {
	Operation  string
	StatusCode int
	Body       string
	Kind       error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %v: status %d: %s", e.Operation, e.Kind, e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error {
	return e.Kind
}

func newAPIError(operation string, kind error, resp *resty.Response) *APIError {
	return &APIError{
		Operation:  operation,
		StatusCode: resp.StatusCode(),
		Body:       resp.String(),
		Kind:       kind,
	}
}

// ShapeError means the response decoded as JSON but did not look like what
// the operation expects. It usually means LingQ changed the API.
type ShapeError struct {
	Operation string
	Err       error
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Operation, ErrInvalidResponse, e.Err)
}

func (e *ShapeError) Unwrap() error {
	return ErrInvalidResponse
}
