package arcade

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrInvalidChoice  = errors.New("invalid_choice")
)
