package services

import (
	"errors"
)

// Business-rule failure kinds. Services wrap these with context via
// fmt.Errorf("...: %w", Err...) so handlers can map them to HTTP codes
// with errors.Is while keeping the detail message.
var (
	// ErrValidation marks malformed or out-of-range input terms
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a missing referenced entity
	ErrNotFound = errors.New("not found")

	// ErrLimitExceeded marks an exhausted quota (company cap, usage limit)
	ErrLimitExceeded = errors.New("limit exceeded")

	// ErrInvalidState marks an operation against an entity whose state forbids it
	ErrInvalidState = errors.New("invalid state")

	// ErrPermissionDenied marks an actor lacking the required capability
	ErrPermissionDenied = errors.New("permission denied")

	// ErrCouponExpired marks redemption of a coupon past its validity window
	ErrCouponExpired = errors.New("coupon expired")

	// ErrGroupRequirement marks an unsatisfied group-subscription gate.
	// External checker failures are folded into this (fail closed) but
	// logged separately for observability.
	ErrGroupRequirement = errors.New("group subscription requirement not satisfied")
)
