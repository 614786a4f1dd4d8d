package service

import "errors"

// Sentinel errors shared by external service clients. The agent
// execution layer uses these to decide which failures are worth
// retrying: quota and network problems are transient, authentication
// and safety blocks are not.
var (
	// ErrQuotaExhausted marks a rate-limit or quota rejection (retryable)
	ErrQuotaExhausted = errors.New("quota exhausted")

	// ErrSafetyBlocked marks a response suppressed by the provider's
	// safety filters (non-retryable: the same prompt will block again)
	ErrSafetyBlocked = errors.New("content blocked by safety filters")

	// ErrUnauthorized marks an authentication or permission failure
	// (non-retryable: credentials will not fix themselves)
	ErrUnauthorized = errors.New("authentication failed")
)
