package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/issueboard/pkg/domain/interfaces"
	"github.com/secmon-lab/issueboard/pkg/domain/model"
	"github.com/secmon-lab/issueboard/pkg/domain/model/auth"
	"github.com/secmon-lab/issueboard/pkg/domain/types"
	"github.com/secmon-lab/issueboard/pkg/utils/async"
	"github.com/secmon-lab/issueboard/pkg/utils/errutil"
	"github.com/secmon-lab/issueboard/pkg/utils/logging"
)

// CreateIssueInput is the user supplied part of a new issue. Empty Priority
// and Status default to Medium and Open.
type CreateIssueInput struct {
	Title       string
	Description string
	Priority    types.Priority
	Status      types.IssueStatus
	AssignedTo  string
}

type IssueUseCase struct {
	repo      interfaces.Repository
	duplicate *DuplicateUseCase
	notifier  interfaces.IssueNotifier
}

func NewIssueUseCase(repo interfaces.Repository, duplicate *DuplicateUseCase, notifier interfaces.IssueNotifier) *IssueUseCase {
	return &IssueUseCase{
		repo:      repo,
		duplicate: duplicate,
		notifier:  notifier,
	}
}

// CreateIssue stores a new issue created by the user in ctx. When a notifier
// is configured, the issue is announced in the background together with the
// existing issues that looked similar at creation time.
func (uc *IssueUseCase) CreateIssue(ctx context.Context, input CreateIssueInput) (*model.Issue, error) {
	issue := &model.Issue{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Priority:    input.Priority.Normalize(),
		Status:      input.Status.Normalize(),
		AssignedTo:  strings.TrimSpace(input.AssignedTo),
		CreatedBy:   creatorFromContext(ctx),
		CreatedTime: time.Now().UTC(),
	}
	if err := issue.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid issue")
	}

	var similar []*model.SimilarityMatch
	if uc.notifier != nil && uc.duplicate != nil {
		report, err := uc.duplicate.CheckDuplicates(ctx, issue.Draft())
		if err != nil {
			// The announcement is best effort; creation goes on without matches
			_ = errutil.Handle(ctx, err, "failed to check duplicates for notification")
		} else {
			similar = report.Displayed
		}
	}

	created, err := uc.repo.Issue().Create(ctx, issue)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create issue")
	}

	logging.From(ctx).Info("issue created",
		IssueIDKey, created.ID,
		"priority", created.Priority,
		"similar", len(similar),
	)

	if uc.notifier != nil {
		notified := created.Copy()
		async.Dispatch(ctx, func(ctx context.Context) error {
			if err := uc.notifier.NotifyIssueCreated(ctx, notified, similar); err != nil {
				return goerr.Wrap(err, "failed to notify issue creation", goerr.V(IssueIDKey, notified.ID))
			}
			return nil
		})
	}

	return created, nil
}

func (uc *IssueUseCase) GetIssue(ctx context.Context, id types.IssueID) (*model.Issue, error) {
	issue, err := uc.repo.Issue().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrIssueNotFound, "issue not found", goerr.V(IssueIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get issue", goerr.V(IssueIDKey, id))
	}

	return issue, nil
}

// ListIssues returns issues newest first. Filters are applied by the store.
func (uc *IssueUseCase) ListIssues(ctx context.Context, opts ...interfaces.ListIssueOption) ([]*model.Issue, error) {
	issues, err := uc.repo.Issue().List(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list issues")
	}

	return issues, nil
}

// UpdateIssueStatus moves an issue to next. Moving an open issue straight to
// Done is rejected with ErrInvalidTransition.
func (uc *IssueUseCase) UpdateIssueStatus(ctx context.Context, id types.IssueID, next types.IssueStatus) (*model.Issue, error) {
	if !next.IsValid() {
		return nil, goerr.Wrap(ErrInvalidInput, "invalid status", goerr.V(StatusKey, next))
	}

	var from types.IssueStatus
	guard := func(current *model.Issue) error {
		from = current.Status
		if !current.Status.CanTransitionTo(next) {
			return goerr.Wrap(ErrInvalidTransition,
				`an issue cannot move directly from "Open" to "Done", change it to "In Progress" first`,
				goerr.V(IssueIDKey, id),
				goerr.V("from", current.Status),
				goerr.V("to", next))
		}
		return nil
	}

	updated, err := uc.repo.Issue().UpdateStatus(ctx, id, next, guard)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidTransition):
			return nil, err
		case errors.Is(err, interfaces.ErrNotFound):
			return nil, goerr.Wrap(ErrIssueNotFound, "issue not found", goerr.V(IssueIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to update issue status", goerr.V(IssueIDKey, id))
	}

	logging.From(ctx).Info("issue status changed",
		IssueIDKey, id,
		"from", from,
		"to", next,
	)

	return updated, nil
}

func creatorFromContext(ctx context.Context) string {
	token, err := auth.TokenFromContext(ctx)
	if err != nil || token.Email == "" {
		return auth.AnonymousEmail
	}
	return token.Email
}
