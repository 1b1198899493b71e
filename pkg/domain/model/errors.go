package model

import "errors"

var (
	// ErrValidation is returned when a domain object has invalid contents
	ErrValidation = errors.New("validation failed")
)
