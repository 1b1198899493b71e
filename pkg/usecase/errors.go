package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrIssueNotFound = errors.New("issue not found")

	// Workflow errors
	ErrInvalidTransition = errors.New("status transition is not allowed")

	// Input errors
	ErrInvalidInput = errors.New("invalid input")

	// Auth errors
	ErrUnauthenticated = errors.New("authentication failed")
)

// Context keys for error values
const (
	IssueIDKey = "issue_id"
	StatusKey  = "status"
)
