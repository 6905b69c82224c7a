package resource

import "github.com/cockroachdb/errors"

// ErrInvalidKey is the error behind every lookup of a key that was never issued, has already been
// destroyed, or is paired with an out-of-range instance index
var ErrInvalidKey = errors.New("invalid resource key")

// ErrExternalResource is returned when an operation that requires ownership is attempted on an
// external resource
var ErrExternalResource = errors.New("resource is externally owned")
