package types

import "errors"

// errNilFailure guards Err(nil): a failed Result must carry a non-nil error.
var errNilFailure = errors.New("types: failed result with nil error")
