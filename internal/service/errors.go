package service

import "errors"

// Every fallible operation returns one of these categories, wrapped with
// call context. Callers branch with errors.Is; all are recoverable.
var (
	ErrDeviceNotFound   = errors.New("device not found")
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrNoData           = errors.New("no data available for analysis")
	ErrInsufficientData = errors.New("insufficient data")
	ErrNotImplemented   = errors.New("recommendation not implemented")
	ErrBudgetNotFound   = errors.New("budget not found")
)
