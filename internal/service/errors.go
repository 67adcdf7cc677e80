package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make the envelope mapping in envelope.go predictable.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid userName or password")
	ErrPasswordMismatch   = errors.New("old password is incorrect")
)

// ===== Not Found Errors =====
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrNetworkNotFound = errors.New("network not found")
)

// ===== Request Errors =====
var (
	ErrNothingToUpdate = errors.New("no fields to update")
)

// ===== Provider/External Errors =====
var (
	// ErrProviderError indicates a failure of a service this API depends on
	ErrProviderError = errors.New("upstream provider error")
)
