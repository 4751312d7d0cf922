package bboyzero

import "errors"

var (
	// ErrMissingConfig is returned when the upstream store is not configured
	ErrMissingConfig = errors.New("missing configuration")
	// ErrUnauthorized is returned when the admin credential is absent or wrong
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation is returned when a request payload fails validation
	ErrValidation = errors.New("validation failed")
	// ErrUpstream is returned when the store responds with a non-success
	// status or the call fails at the network level
	ErrUpstream = errors.New("upstream failure")
	// ErrUpstreamTimeout is returned when a store call exceeds its deadline
	ErrUpstreamTimeout = errors.New("upstream timeout")
	// ErrUploadFailed is returned when an image could not be written to
	// object storage
	ErrUploadFailed = errors.New("image upload failed")
	// ErrNotFound is returned when a static file does not exist
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when a static path escapes the served root
	ErrForbidden = errors.New("forbidden")
)
