package clarizen

import (
	"errors"
	"fmt"
)

// ErrAllQueriesExhausted is returned by RunCascade when every candidate query
// produced zero entities. Callers decide whether that is fatal or degrades to
// an empty result set.
var ErrAllQueriesExhausted = errors.New("all candidate queries exhausted")

// AuthError means no session token was obtainable. It is fatal for the whole
// pass; nothing downstream runs without a session.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

// IsAuthError reports whether err is (or wraps) an AuthError.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsExhausted reports whether err is (or wraps) ErrAllQueriesExhausted.
func IsExhausted(err error) bool {
	return errors.Is(err, ErrAllQueriesExhausted)
}
