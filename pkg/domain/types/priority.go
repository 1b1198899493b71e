package types

import "fmt"

// Priority represents the urgency of an issue
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// AllPriorities returns all valid priorities
func AllPriorities() []Priority {
	return []Priority{
		PriorityLow,
		PriorityMedium,
		PriorityHigh,
	}
}

// IsValid checks if the priority is valid
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow,
		PriorityMedium,
		PriorityHigh:
		return true
	default:
		return false
	}
}

// Normalize returns the priority, treating empty as PriorityMedium.
func (p Priority) Normalize() Priority {
	if p == "" {
		return PriorityMedium
	}
	return p
}

// String returns the string representation of the priority
func (p Priority) String() string {
	return string(p)
}

// ParsePriority parses a string into a Priority
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid priority: %s", s)
	}
	return p, nil
}
