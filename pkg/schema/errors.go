package schema

import "errors"

// ErrDump is returned when a value cannot be converted back to a mapping.
var ErrDump = errors.New("schema: failed to dump value")
