package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/issueboard/pkg/domain/interfaces"
	"github.com/secmon-lab/issueboard/pkg/domain/model"
	"github.com/secmon-lab/issueboard/pkg/domain/types"
	"github.com/secmon-lab/issueboard/pkg/repository/firestore"
	"github.com/secmon-lab/issueboard/pkg/repository/memory"
)

func isNotFound(err error) bool {
	return errors.Is(err, memory.ErrNotFound) || errors.Is(err, firestore.ErrNotFound)
}

func runIssueRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	newIssue := func(title string, priority types.Priority, status types.IssueStatus, offset time.Duration) *model.Issue {
		return &model.Issue{
			Title:       title,
			Description: title + " description",
			Priority:    priority,
			Status:      status,
			AssignedTo:  "bob@example.com",
			CreatedBy:   "alice@example.com",
			CreatedTime: base.Add(offset),
		}
	}

	t.Run("Create assigns ID and keeps fields", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		input := newIssue("Login button broken", types.PriorityHigh, types.IssueStatusOpen, 0)
		created, err := repo.Issue().Create(ctx, input)
		gt.NoError(t, err).Required()

		gt.Bool(t, created.ID.IsEmpty()).False()
		gt.Bool(t, input.ID.IsEmpty()).True()
		gt.Value(t, created.Title).Equal(input.Title)
		gt.Value(t, created.Description).Equal(input.Description)
		gt.Value(t, created.Priority).Equal(types.PriorityHigh)
		gt.Value(t, created.Status).Equal(types.IssueStatusOpen)
		gt.Value(t, created.AssignedTo).Equal("bob@example.com")
		gt.Value(t, created.CreatedBy).Equal("alice@example.com")
		gt.Bool(t, created.CreatedTime.Equal(base)).True()

		other, err := repo.Issue().Create(ctx, newIssue("Another", types.PriorityLow, types.IssueStatusOpen, time.Minute))
		gt.NoError(t, err).Required()
		gt.Value(t, other.ID).NotEqual(created.ID)
	})

	t.Run("Create sets CreatedTime when missing", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		input := newIssue("No time", types.PriorityLow, types.IssueStatusOpen, 0)
		input.CreatedTime = time.Time{}

		created, err := repo.Issue().Create(ctx, input)
		gt.NoError(t, err).Required()
		gt.Bool(t, created.CreatedTime.IsZero()).False()
	})

	t.Run("Get retrieves existing issue", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Issue().Create(ctx, newIssue("Crash on save", types.PriorityMedium, types.IssueStatusOpen, 0))
		gt.NoError(t, err).Required()

		got, err := repo.Issue().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.ID).Equal(created.ID)
		gt.Value(t, got.Title).Equal(created.Title)
		gt.Bool(t, got.CreatedTime.Equal(created.CreatedTime)).True()
	})

	t.Run("Get returns not found", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Issue().Get(context.Background(), types.IssueID("missing"))
		gt.Bool(t, isNotFound(err)).True()
	})

	t.Run("List orders newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i, title := range []string{"first", "second", "third"} {
			_, err := repo.Issue().Create(ctx, newIssue(title, types.PriorityMedium, types.IssueStatusOpen, time.Duration(i)*time.Hour))
			gt.NoError(t, err).Required()
		}

		issues, err := repo.Issue().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, issues).Length(3)
		gt.Value(t, issues[0].Title).Equal("third")
		gt.Value(t, issues[1].Title).Equal("second")
		gt.Value(t, issues[2].Title).Equal("first")
	})

	t.Run("List filters by status and priority", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		seed := []*model.Issue{
			newIssue("open high", types.PriorityHigh, types.IssueStatusOpen, 0),
			newIssue("open low", types.PriorityLow, types.IssueStatusOpen, time.Hour),
			newIssue("progress high", types.PriorityHigh, types.IssueStatusInProgress, 2*time.Hour),
		}
		for _, issue := range seed {
			_, err := repo.Issue().Create(ctx, issue)
			gt.NoError(t, err).Required()
		}

		open, err := repo.Issue().List(ctx, interfaces.WithStatus(types.IssueStatusOpen))
		gt.NoError(t, err).Required()
		gt.Array(t, open).Length(2)
		gt.Value(t, open[0].Title).Equal("open low")

		high, err := repo.Issue().List(ctx, interfaces.WithPriority(types.PriorityHigh))
		gt.NoError(t, err).Required()
		gt.Array(t, high).Length(2)
		gt.Value(t, high[0].Title).Equal("progress high")

		both, err := repo.Issue().List(ctx,
			interfaces.WithStatus(types.IssueStatusOpen),
			interfaces.WithPriority(types.PriorityHigh))
		gt.NoError(t, err).Required()
		gt.Array(t, both).Length(1)
		gt.Value(t, both[0].Title).Equal("open high")

		done, err := repo.Issue().List(ctx, interfaces.WithStatus(types.IssueStatusDone))
		gt.NoError(t, err).Required()
		gt.Array(t, done).Length(0)
	})

	t.Run("UpdateStatus changes only the status", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Issue().Create(ctx, newIssue("Slow query", types.PriorityHigh, types.IssueStatusOpen, 0))
		gt.NoError(t, err).Required()

		updated, err := repo.Issue().UpdateStatus(ctx, created.ID, types.IssueStatusInProgress, nil)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Status).Equal(types.IssueStatusInProgress)
		gt.Value(t, updated.Title).Equal(created.Title)

		got, err := repo.Issue().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Status).Equal(types.IssueStatusInProgress)
	})

	t.Run("UpdateStatus guard sees stored issue and can abort", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Issue().Create(ctx, newIssue("Guarded", types.PriorityLow, types.IssueStatusOpen, 0))
		gt.NoError(t, err).Required()

		errRejected := errors.New("rejected")
		var seen types.IssueStatus
		_, err = repo.Issue().UpdateStatus(ctx, created.ID, types.IssueStatusDone, func(current *model.Issue) error {
			seen = current.Status
			return errRejected
		})
		gt.Error(t, err).Is(errRejected)
		gt.Value(t, seen).Equal(types.IssueStatusOpen)

		got, err := repo.Issue().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Status).Equal(types.IssueStatusOpen)
	})

	t.Run("UpdateStatus returns not found", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Issue().UpdateStatus(context.Background(), types.IssueID("missing"), types.IssueStatusDone, nil)
		gt.Bool(t, isNotFound(err)).True()
	})

	t.Run("returned issues are copies", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Issue().Create(ctx, newIssue("Original", types.PriorityLow, types.IssueStatusOpen, 0))
		gt.NoError(t, err).Required()
		created.Title = "Mutated"

		got, err := repo.Issue().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Title).Equal("Original")
	})
}

func TestIssueRepository_Memory(t *testing.T) {
	runIssueRepositoryTest(t, newMemoryRepository)
}

func TestIssueRepository_Firestore(t *testing.T) {
	runIssueRepositoryTest(t, newFirestoreRepository)
}
