package unit

import "errors"

var (
	// ErrUnknownValidator is returned when a registry has no definition by that name.
	ErrUnknownValidator = errors.New("unit: unknown validator")

	// ErrInvalidDefinition is returned when a rule file cannot be decoded.
	ErrInvalidDefinition = errors.New("unit: invalid validator definition")
)
