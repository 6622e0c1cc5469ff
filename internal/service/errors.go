package service

import "errors"

// Domain errors surfaced verbatim to the initiating user. Handlers map them
// onto HTTP statuses; anything else is treated as a store error.
var (
	ErrDriverNotFound     = errors.New("driver not found")
	ErrRewardNotFound     = errors.New("reward not found")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrLimitReached       = errors.New("per-user redemption limit reached")
	ErrOutOfStock         = errors.New("reward out of stock")
)
