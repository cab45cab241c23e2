package filehandler

import "errors"

var (
	ErrInvalidURL   = errors.New("filehandler: invalid url")
	ErrRemoteStatus = errors.New("filehandler: unexpected remote status")
	ErrTooLarge     = errors.New("filehandler: payload too large")
)
