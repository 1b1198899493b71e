package interfaces

import (
	"context"

	"github.com/secmon-lab/issueboard/pkg/domain/model"
	"github.com/secmon-lab/issueboard/pkg/domain/types"
)

// IssueRepository defines the interface for Issue data access
type IssueRepository interface {
	// Create stores a new issue and returns it with the ID assigned by the store.
	// CreatedTime is kept when set, otherwise the current time is used.
	Create(ctx context.Context, issue *model.Issue) (*model.Issue, error)

	// Get retrieves an issue by ID
	Get(ctx context.Context, id types.IssueID) (*model.Issue, error)

	// List retrieves issues, newest first, with optional filtering
	List(ctx context.Context, opts ...ListIssueOption) ([]*model.Issue, error)

	// UpdateStatus changes the status of an existing issue and returns the updated issue.
	// guard, when not nil, sees the stored issue atomically with the write and aborts
	// the update by returning an error.
	UpdateStatus(ctx context.Context, id types.IssueID, status types.IssueStatus, guard StatusGuard) (*model.Issue, error)
}

// StatusGuard checks the stored issue before its status is overwritten
type StatusGuard func(current *model.Issue) error
