package auth

import (
	"errors"
	"fmt"
)

// Authorization failure: the caller lacks the privilege a destructive or
// sensitive operation requires. Rejected before any state change.
var ErrUnauthorized = errors.New("super admin privilege required")

// ErrAuthentication is the umbrella for credential verification failures.
// The sub-kinds below wrap it so callers can match either the family or the
// specific failure for user-facing messaging.
var ErrAuthentication = errors.New("authentication failed")

var (
	ErrNoSuchAccount     = fmt.Errorf("%w: no account found with that username", ErrAuthentication)
	ErrWrongCredential   = fmt.Errorf("%w: incorrect password", ErrAuthentication)
	ErrMalformedIdentity = fmt.Errorf("%w: invalid username format", ErrAuthentication)
)
