package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/issueboard/pkg/domain/model"
	"github.com/secmon-lab/issueboard/pkg/domain/types"
	"github.com/secmon-lab/issueboard/pkg/repository/memory"
	"github.com/secmon-lab/issueboard/pkg/usecase"
)

func seedIssues(t *testing.T, repo *memory.Memory, issues ...*model.Issue) {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, issue := range issues {
		issue.Priority = types.PriorityMedium
		issue.Status = types.IssueStatusOpen
		issue.CreatedTime = base.Add(time.Duration(i) * time.Minute)
		_, err := repo.Issue().Create(context.Background(), issue)
		gt.NoError(t, err).Required()
	}
}

func TestDuplicateUseCase_CheckDuplicates(t *testing.T) {
	ctx := context.Background()

	t.Run("blank draft returns empty report", func(t *testing.T) {
		repo := memory.New()
		seedIssues(t, repo, &model.Issue{Title: "Login bug", Description: "cannot login"})
		uc := usecase.New(repo)

		report, err := uc.Duplicate.CheckDuplicates(ctx, model.IssueDraft{Title: "  ", Description: "\n"})
		gt.NoError(t, err).Required()
		gt.B(t, report.Matches != nil).True()
		gt.A(t, report.Matches).Length(0)
		gt.A(t, report.Displayed).Length(0)
		gt.Number(t, report.Total()).Equal(0)
		gt.Number(t, report.Scanned).Equal(0)
		gt.B(t, report.HasMatches()).False()
	})

	t.Run("reports similar issues most similar first", func(t *testing.T) {
		repo := memory.New()
		seedIssues(t, repo,
			&model.Issue{Title: "Dark mode support", Description: "Add a dark theme"},
			&model.Issue{Title: "Login button broken", Description: "Clicking login does nothing"},
			&model.Issue{Title: "Login button broke", Description: "zzzz"},
		)
		uc := usecase.New(repo)

		report, err := uc.Duplicate.CheckDuplicates(ctx, model.IssueDraft{
			Title:       "Login button broken",
			Description: "Clicking login does nothing",
		})
		gt.NoError(t, err).Required()
		gt.Number(t, report.Scanned).Equal(3)
		gt.A(t, report.Matches).Length(2)
		gt.V(t, report.Matches[0].Issue.Title).Equal("Login button broken")
		gt.V(t, report.Matches[0].Reason).Equal(types.MatchReasonBoth)
		gt.Number(t, report.Matches[0].Percent()).Equal(100)
		gt.V(t, report.Matches[1].Issue.Title).Equal("Login button broke")
		gt.V(t, report.Matches[1].Reason).Equal(types.MatchReasonTitle)
	})

	t.Run("display limit truncates displayed matches only", func(t *testing.T) {
		repo := memory.New()
		for i := range 5 {
			seedIssues(t, repo, &model.Issue{Title: fmt.Sprintf("Crash on save %d", i), Description: "app crashes"})
		}
		policy := model.DefaultDetectionPolicy()
		policy.DisplayLimit = 2
		uc := usecase.New(repo, usecase.WithPolicy(policy))

		report, err := uc.Duplicate.CheckDuplicates(ctx, model.IssueDraft{Title: "Crash on save", Description: "app crashes"})
		gt.NoError(t, err).Required()
		gt.Number(t, report.Total()).Equal(5)
		gt.A(t, report.Displayed).Length(2)
		gt.V(t, report.Displayed[0]).Equal(report.Matches[0])
	})

	t.Run("threshold from policy", func(t *testing.T) {
		repo := memory.New()
		seedIssues(t, repo, &model.Issue{Title: "Login button broke", Description: "x"})

		policy := model.DefaultDetectionPolicy()
		policy.Threshold = 1.0
		uc := usecase.New(repo, usecase.WithPolicy(policy))

		report, err := uc.Duplicate.CheckDuplicates(ctx, model.IssueDraft{Title: "Login button broken", Description: "y"})
		gt.NoError(t, err).Required()
		gt.A(t, report.Matches).Length(0)
	})
}

func TestDuplicateUseCase_FindSimilarParallel(t *testing.T) {
	ctx := context.Background()

	var existing []*model.Issue
	for i := range 250 {
		existing = append(existing, &model.Issue{
			ID:          types.IssueID(fmt.Sprintf("issue-%03d", i)),
			Title:       fmt.Sprintf("Search result %d is wrong", i%7),
			Description: fmt.Sprintf("ranking bug number %d", i%3),
		})
	}
	draft := model.IssueDraft{Title: "Search result 3 is wrong", Description: "ranking bug number 1"}

	sequential := model.FindSimilar(draft, existing)
	gt.B(t, len(sequential) > 0).True()

	for _, workers := range []int{2, 3, 4, 16, 500} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			policy := model.DefaultDetectionPolicy()
			policy.ParallelThreshold = 10
			policy.Workers = workers
			uc := usecase.NewDuplicateUseCase(memory.New(), policy)

			parallel, err := uc.FindSimilar(ctx, draft, existing)
			gt.NoError(t, err).Required()
			gt.A(t, parallel).Length(len(sequential))
			for i := range sequential {
				gt.V(t, parallel[i].Issue.ID).Equal(sequential[i].Issue.ID)
				gt.V(t, parallel[i].Score).Equal(sequential[i].Score)
			}
		})
	}

	t.Run("cancelled context", func(t *testing.T) {
		policy := model.DefaultDetectionPolicy()
		policy.ParallelThreshold = 10
		uc := usecase.NewDuplicateUseCase(memory.New(), policy)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := uc.FindSimilar(cancelled, draft, existing)
		gt.Error(t, err).Is(context.Canceled)
	})
}
