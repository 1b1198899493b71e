package memory

import (
	"github.com/secmon-lab/issueboard/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory keeps every record in process memory. It is meant for development
// and tests; nothing survives a restart.
type Memory struct {
	issue  *issueRepository
	tokens *tokenStore
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		issue:  newIssueRepository(),
		tokens: newTokenStore(),
	}
}

func (m *Memory) Issue() interfaces.IssueRepository {
	return m.issue
}

func (m *Memory) Close() error {
	return nil
}
