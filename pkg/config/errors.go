package config

import "errors"

var (
	ErrReadFile   = errors.New("config: failed to read file")
	ErrDecodeFile = errors.New("config: failed to decode file")
	ErrParseEnv   = errors.New("config: failed to parse environment")
)
