package auth

import "errors"

// ErrDisabled is returned when tokens are requested without a configured secret.
var ErrDisabled = errors.New("authentication is disabled")
