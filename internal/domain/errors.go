package domain

import "errors"

// Error kinds are sentinels so calling layers can branch with errors.Is
// and map each to a distinct user-facing message.
var (
	ErrRecordNotFound     = errors.New("Record not found")
	ErrValidation         = errors.New("validation failed")
	ErrPolicy             = errors.New("policy check failed")
	ErrUnbalanced         = errors.New("posting legs are not balanced")
	ErrAlreadyReversed    = errors.New("transaction already reversed")
	ErrDuplicateRequestID = errors.New("duplicate request id")
)
