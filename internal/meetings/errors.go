package meetings

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors for meeting operations.
var (
	ErrNotFound              = errors.New("meeting not found")
	ErrClassification        = errors.New("classification request failed")
	ErrInvalidClassification = errors.New("classification partition is not disjoint and exhaustive")
)

// NotReadyError indicates the readiness retry budget was exhausted before
// the meeting reached a ready status. It carries the last observed status
// so callers can surface it for a manual retry.
type NotReadyError struct {
	LastStatus Status
	Attempts   int
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("meeting not ready after %d attempts (last status: %s)", e.Attempts, e.LastStatus)
}

// MapHTTPStatus maps meeting domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	var notReady *NotReadyError
	if errors.As(err, &notReady) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrClassification) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
