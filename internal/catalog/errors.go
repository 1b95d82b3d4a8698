package catalog

import "errors"

var (
	// ErrValidation indicates required upload fields are missing or invalid.
	ErrValidation = errors.New("invalid video input")
)
