package fsys

import "errors"

// ErrNotExist indicates that a requested path is absent or unreadable.
// Metric sources treat it as "metric unavailable", never as a hard failure.
var ErrNotExist = errors.New("fsys: no such file")
