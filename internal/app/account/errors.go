package account

import "errors"

var (
	ErrInvalidRequest   = errors.New("invalid_request")
	ErrMissingParameter = errors.New("missing_parameter")
	ErrDailyNotReady    = errors.New("daily_not_ready")
	ErrWeeklyNotReady   = errors.New("weekly_not_ready")
)
