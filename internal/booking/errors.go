package booking

import "errors"

// ErrValidation marks a booking submission rejected before any state
// mutation: missing movie, unknown show type, negative ticket count, missing
// contact name. The wrapped message names the offending field.
var ErrValidation = errors.New("validation failed")

// ErrConfirmationRequired is returned by Push when the operator has not
// explicitly confirmed the bulk overwrite of remote state.
var ErrConfirmationRequired = errors.New("push requires explicit confirmation")
