package service

import "errors"

// Typed failures surfaced to callers. Cache and push failures are never
// among them: those are absorbed at the point of call and only degrade
// functionality.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrRateLimited  = errors.New("rate limited")
	ErrUnauthorized = errors.New("unauthorized")
)
