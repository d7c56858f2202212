package vectorindex

import (
	"errors"
	"fmt"
)

// ErrUnavailable indicates the underlying store is unreachable or corrupt.
// Fatal for the current request, not for the process.
var ErrUnavailable = errors.New("vector index unavailable")

// ValidationError reports malformed query parameters, rejected before any
// store round-trip.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
