package reconcile

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/planloom/minutes/internal/meetings"
)

// Domain errors for reconciliation operations.
var (
	ErrSessionNotFound      = errors.New("reconciliation session not found")
	ErrUnknownConflict      = errors.New("item is not a conflict in this session")
	ErrInvalidDecision      = errors.New("decision must be keep_existing, replace, or merge")
	ErrIncompleteResolution = errors.New("unresolved conflicts remain")
	ErrAlreadyApplied       = errors.New("meeting decisions already applied")
	ErrApplyInFlight        = errors.New("apply already in progress for this meeting")
)

// ApplyError wraps a network or server failure while submitting decisions.
// Local resolution state is untouched when it is returned, so the user can
// retry without re-resolving conflicts.
type ApplyError struct {
	Err error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("apply failed: %v", e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// MapHTTPStatus maps reconciliation errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	var applyErr *ApplyError
	if errors.As(err, &applyErr) {
		return http.StatusBadGateway
	}

	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnknownConflict), errors.Is(err, ErrInvalidDecision):
		return http.StatusBadRequest
	case errors.Is(err, ErrIncompleteResolution),
		errors.Is(err, ErrAlreadyApplied),
		errors.Is(err, ErrApplyInFlight):
		return http.StatusConflict
	}

	return meetings.MapHTTPStatus(err)
}
