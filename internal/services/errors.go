package services

import (
	"errors"
	"fmt"
)

var (
	ErrPromptRequired    = errors.New("prompt is required")
	ErrLookupKeyRequired = errors.New("either domain or company name is required")
	ErrNotConfigured     = errors.New("provider not configured")
	ErrUpstream          = errors.New("upstream request failed")
	ErrSessionNotFound   = errors.New("session not found")
)

// UpstreamError carries the status of a failed provider call. It matches
// ErrUpstream with errors.Is.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Provider, e.StatusCode, e.Body)
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}
