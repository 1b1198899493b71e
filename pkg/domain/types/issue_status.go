package types

import "fmt"

// IssueStatus represents the workflow status of an issue
type IssueStatus string

const (
	IssueStatusOpen       IssueStatus = "Open"
	IssueStatusInProgress IssueStatus = "In Progress"
	IssueStatusDone       IssueStatus = "Done"
)

// AllIssueStatuses returns all valid issue statuses
func AllIssueStatuses() []IssueStatus {
	return []IssueStatus{
		IssueStatusOpen,
		IssueStatusInProgress,
		IssueStatusDone,
	}
}

// IsValid checks if the issue status is valid
func (s IssueStatus) IsValid() bool {
	switch s {
	case IssueStatusOpen,
		IssueStatusInProgress,
		IssueStatusDone:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as IssueStatusOpen.
func (s IssueStatus) Normalize() IssueStatus {
	if s == "" {
		return IssueStatusOpen
	}
	return s
}

// CanTransitionTo reports whether an issue in status s may move to next.
// An open issue has to go through In Progress before it can be Done.
func (s IssueStatus) CanTransitionTo(next IssueStatus) bool {
	if !next.IsValid() {
		return false
	}
	return !(s.Normalize() == IssueStatusOpen && next == IssueStatusDone)
}

// String returns the string representation of the issue status
func (s IssueStatus) String() string {
	return string(s)
}

// ParseIssueStatus parses a string into an IssueStatus
func ParseIssueStatus(s string) (IssueStatus, error) {
	status := IssueStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid issue status: %s", s)
	}
	return status, nil
}
