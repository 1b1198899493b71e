package interfaces

import (
	"context"

	"github.com/secmon-lab/issueboard/pkg/domain/model"
)

// IssueNotifier announces newly created issues to an external channel
type IssueNotifier interface {
	NotifyIssueCreated(ctx context.Context, issue *model.Issue, similar []*model.SimilarityMatch) error
}
