package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrAlreadyExists   = errors.New("entity already exists")

	// ErrUpstream marks failures of the external text-generation service.
	ErrUpstream = errors.New("upstream generation failed")

	// ErrRateLimited is returned when a caller exceeds the chat rate limit.
	ErrRateLimited = errors.New("rate limit exceeded")
)
