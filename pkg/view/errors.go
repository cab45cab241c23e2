package view

import "errors"

// ErrNotImplemented is returned by upload and download views whose hooks
// were not provided. It surfaces as an uncaught exception.
var ErrNotImplemented = errors.New("view: not implemented")
