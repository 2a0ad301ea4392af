package profile

import "errors"

// ErrNotFound is returned for unknown ids and for profiles owned by someone else.
var ErrNotFound = errors.New("profile not found")
