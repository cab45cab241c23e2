package filter

import "errors"

var (
	// ErrNoFields is returned by the constructors when neither WithFields nor the model yields any field.
	ErrNoFields = errors.New("filter: no filterable fields")

	// ErrInvalidModel is returned when the model is neither a Model nor a struct.
	ErrInvalidModel = errors.New("filter: model must be a struct or implement Model")
)
