package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrNotFound indicates a repository path or file was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidRepository indicates the path exists but is not a usable repository
	ErrInvalidRepository = errors.New("invalid repository")

	// ErrDirectoryNotFound indicates a directory argument does not exist inside the repository
	ErrDirectoryNotFound = errors.New("directory not found")

	// ErrParseFailure indicates a manifest file could not be read at all
	ErrParseFailure = errors.New("parse failure")

	// ErrConfiguration indicates invalid caller-supplied configuration
	ErrConfiguration = errors.New("invalid configuration")

	// ErrCacheMiss indicates a cache miss
	ErrCacheMiss = errors.New("cache miss")
)

// CloneError represents a failure cloning or updating a remote repository
type CloneError struct {
	URL string
	Err error
}

func (e *CloneError) Error() string {
	return fmt.Sprintf("failed to clone repository %s: %v", e.URL, e.Err)
}

func (e *CloneError) Unwrap() error {
	return e.Err
}

// NewCloneError creates a new CloneError
func NewCloneError(url string, err error) *CloneError {
	return &CloneError{URL: url, Err: err}
}

// StyleError represents an unsupported tree style argument
type StyleError struct {
	Style string
}

func (e *StyleError) Error() string {
	return fmt.Sprintf("unsupported tree style: %q", e.Style)
}

func (e *StyleError) Unwrap() error {
	return ErrConfiguration
}

// PatternError represents an invalid glob pattern
type PatternError struct {
	Pattern string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid glob pattern: %q", e.Pattern)
}

func (e *PatternError) Unwrap() error {
	return ErrConfiguration
}
