package rate

import "errors"

var (
	ErrBudgetExhausted    = errors.New("weight budget exhausted")
	ErrBackendUnavailable = errors.New("rate limit backend unavailable")
)
