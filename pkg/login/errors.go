package login

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIntegrationInvariant means a collaborator returned an impossible value,
	// such as a nil challenge result.
	ErrIntegrationInvariant = errors.New("integration invariant violated")

	// ErrAuthorizationAttemptsExceeded is returned when no token was obtained
	// within Config.MaxAuthorizationAttempts rounds.
	ErrAuthorizationAttemptsExceeded = errors.New("authorization attempts exceeded")
)

func invariantError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIntegrationInvariant, fmt.Sprintf(format, args...))
}

// IncorrectScopesError is returned when a verified token lacks required scopes.
type IncorrectScopesError struct {
	Required []string
	Granted  []string
	// Reported is false when the host sent no X-OAuth-Scopes header
	Reported bool
}

func (e *IncorrectScopesError) Error() string {
	if !e.Reported {
		return fmt.Sprintf("incorrect API scopes: required %s but the host did not report any", strings.Join(e.Required, ","))
	}
	return fmt.Sprintf("incorrect API scopes: required %s but got %s", strings.Join(e.Required, ","), strings.Join(e.Granted, ","))
}
