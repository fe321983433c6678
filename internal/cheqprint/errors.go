// errors.go defines the failure taxonomy shared by every request the client issues.
package cheqprint

import "errors"

var (
	// ErrNetwork marks transport-level failures (DNS, refused connection, cancelled context).
	ErrNetwork = errors.New("network failure")

	// ErrProtocol marks responses whose body is not valid JSON, or requests whose body
	// could not be encoded.
	ErrProtocol = errors.New("protocol failure")

	// ErrApplication marks responses with an HTTP status of 400 or above.
	ErrApplication = errors.New("application failure")
)

// APIError carries the HTTP status and a short message alongside one of the sentinel
// errors above, so callers can use errors.Is for the class and errors.As for details.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError returns an APIError whose Unwrap yields err, so err should wrap one of
// ErrNetwork, ErrProtocol or ErrApplication.
func NewAPIError(statusCode int, message string, err error) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}
