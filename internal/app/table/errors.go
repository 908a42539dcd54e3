package table

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrInvalidAction  = errors.New("invalid_action")
	ErrTableNotFound  = errors.New("table_not_found")
	ErrTableClosed    = errors.New("table_closed")
	ErrTableOpen      = errors.New("table_already_open")
	ErrNotYourTable   = errors.New("not_your_table")
)
