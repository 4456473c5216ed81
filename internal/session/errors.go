package session

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound indicates the referenced session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrPlayerNotFound indicates a referenced player does not exist in the session.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrConflict is reserved for stricter court-exclusivity modes. The
	// current policy resolves conflicts by overwrite, so it is never
	// returned by this package.
	ErrConflict = errors.New("court assignment conflict")
)

// ValidationError reports malformed input to a store operation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
