// Package service contains the domain services. Each service enforces
// ownership: mutations look the resource up first (absent -> ErrNotFound),
// then compare its owner to the caller (mismatch -> ErrForbidden). List
// operations are owner-scoped queries and never see other users' records.
package service

import "errors"

var (
	// ErrNotFound means the target resource does not exist. Checked before
	// ownership so missing and foreign resources are not distinguishable
	// by error ordering.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden means the resource exists but belongs to another user.
	ErrForbidden = errors.New("resource belongs to another user")

	// ErrValidation means the request violates a domain invariant. The
	// wrapped message is safe to show to the caller.
	ErrValidation = errors.New("validation failed")
)
