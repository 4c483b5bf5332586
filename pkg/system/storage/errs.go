package storage

import "errors"

// ErrDupMount indicates a captured mount table with a repeated mount path,
// which would make longest-prefix resolution ambiguous.
var ErrDupMount = errors.New("storage: duplicate mount path")
