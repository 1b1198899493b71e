package interfaces

import "github.com/secmon-lab/issueboard/pkg/domain/types"

// ListIssueOption is a functional option for filtering issues in List
type ListIssueOption func(*listIssueConfig)

type listIssueConfig struct {
	status   *types.IssueStatus
	priority *types.Priority
}

// WithStatus filters issues by status
func WithStatus(status types.IssueStatus) ListIssueOption {
	return func(c *listIssueConfig) {
		c.status = &status
	}
}

// WithPriority filters issues by priority
func WithPriority(priority types.Priority) ListIssueOption {
	return func(c *listIssueConfig) {
		c.priority = &priority
	}
}

// BuildListIssueConfig builds a listIssueConfig from options
func BuildListIssueConfig(opts ...ListIssueOption) *listIssueConfig {
	cfg := &listIssueConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Status returns the status filter value, or nil if not set
func (c *listIssueConfig) Status() *types.IssueStatus {
	return c.status
}

// Priority returns the priority filter value, or nil if not set
func (c *listIssueConfig) Priority() *types.Priority {
	return c.priority
}

// Match reports whether the issue passes the configured filters
func (c *listIssueConfig) Match(status types.IssueStatus, priority types.Priority) bool {
	if c.status != nil && *c.status != status {
		return false
	}
	if c.priority != nil && *c.priority != priority {
		return false
	}
	return true
}
