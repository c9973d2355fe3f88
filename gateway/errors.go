package gateway

import "errors"

// Failure taxonomy. Every failure is terminal for the current request;
// nothing is retried. The HTTP adapter maps each to a stable status code.
var (
	ErrUnauthorized  = errors.New("pro subscription required")
	ErrQuotaExceeded = errors.New("daily request limit exceeded")
	ErrInvalidModel  = errors.New("invalid model specified")
	ErrInvalidCode   = errors.New("invalid redeem code")
	ErrUpstream      = errors.New("upstream request failed")
)
