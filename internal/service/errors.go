package service

import "errors"

var (
	// ErrEmptyReason is returned when Hold or RequestRevision is invoked
	// without a reason.
	ErrEmptyReason = errors.New("reason must not be empty")

	// ErrEmptyProof is returned when Complete is invoked without a proof URL.
	ErrEmptyProof = errors.New("proof URL must not be empty")

	// ErrForbidden is returned when a non-admin session invokes an admin-only
	// operation.
	ErrForbidden = errors.New("operation requires admin role")
)
