package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/issueboard/pkg/domain/interfaces"
	"github.com/secmon-lab/issueboard/pkg/domain/model"
	"github.com/secmon-lab/issueboard/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// IssuesCollection is the collection holding issue documents
const IssuesCollection = "issues"

type issueRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newIssueRepository(client *firestore.Client) *issueRepository {
	return &issueRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *issueRepository) issuesCollection() string {
	return CollectionName(r.collectionPrefix, IssuesCollection)
}

func (r *issueRepository) Create(ctx context.Context, issue *model.Issue) (*model.Issue, error) {
	created := issue.Copy()
	if created.CreatedTime.IsZero() {
		created.CreatedTime = time.Now().UTC()
	}

	docRef := r.client.Collection(r.issuesCollection()).NewDoc()
	if _, err := docRef.Set(ctx, created); err != nil {
		return nil, goerr.Wrap(err, "failed to create issue", goerr.V("title", created.Title))
	}

	created.ID = types.IssueID(docRef.ID)
	return created, nil
}

func (r *issueRepository) Get(ctx context.Context, id types.IssueID) (*model.Issue, error) {
	docSnap, err := r.client.Collection(r.issuesCollection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "issue not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get issue", goerr.V("id", id))
	}

	return decodeIssue(docSnap)
}

func (r *issueRepository) List(ctx context.Context, opts ...interfaces.ListIssueOption) ([]*model.Issue, error) {
	cfg := interfaces.BuildListIssueConfig(opts...)

	// Filtering on both status and priority needs the composite index created by `migrate`
	query := r.client.Collection(r.issuesCollection()).Query
	if s := cfg.Status(); s != nil {
		query = query.Where("status", "==", s.String())
	}
	if p := cfg.Priority(); p != nil {
		query = query.Where("priority", "==", p.String())
	}
	query = query.OrderBy("created_time", firestore.Desc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	issues := []*model.Issue{}
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate issues")
		}

		issue, err := decodeIssue(docSnap)
		if err != nil {
			return nil, err
		}
		issues = append(issues, issue)
	}

	return issues, nil
}

func (r *issueRepository) UpdateStatus(ctx context.Context, id types.IssueID, next types.IssueStatus, guard interfaces.StatusGuard) (*model.Issue, error) {
	docRef := r.client.Collection(r.issuesCollection()).Doc(id.String())

	var updated *model.Issue
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "issue not found", goerr.V("id", id))
			}
			return goerr.Wrap(err, "failed to get issue", goerr.V("id", id))
		}

		current, err := decodeIssue(docSnap)
		if err != nil {
			return err
		}
		if guard != nil {
			if err := guard(current.Copy()); err != nil {
				return err
			}
		}

		if err := tx.Update(docRef, []firestore.Update{
			{Path: "status", Value: next.String()},
		}); err != nil {
			return goerr.Wrap(err, "failed to update issue status", goerr.V("id", id), goerr.V("status", next))
		}

		current.Status = next
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func decodeIssue(docSnap *firestore.DocumentSnapshot) (*model.Issue, error) {
	var issue model.Issue
	if err := docSnap.DataTo(&issue); err != nil {
		return nil, goerr.Wrap(err, "failed to decode issue", goerr.V("doc_id", docSnap.Ref.ID))
	}
	issue.ID = types.IssueID(docSnap.Ref.ID)
	issue.CreatedTime = issue.CreatedTime.UTC()
	return &issue, nil
}
