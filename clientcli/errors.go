package clientcli

import "errors"

// Errors for profile operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoProfiles      = errors.New("no profiles configured")
	ErrProfileExists   = errors.New("profile already exists")
)

// Errors for upload responses that are neither SUCCESS nor an explicit error.
var (
	ErrEmptyResponse  = errors.New("empty response")
	ErrMissingTreeID  = errors.New("response carries no tree ID")
	ErrDuplicateEntry = errors.New("two files share a name inside the bundle")
)
