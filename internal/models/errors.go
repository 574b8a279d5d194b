package models

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrInvalidID  = errors.New("invalid id")
	ErrValidation = errors.New("validation error")
	ErrGateway    = errors.New("storage error")
)
