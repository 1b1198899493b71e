package cli_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/issueboard/pkg/cli"
	"github.com/secmon-lab/issueboard/pkg/domain/model"
	"github.com/secmon-lab/issueboard/pkg/domain/types"
	"github.com/secmon-lab/issueboard/pkg/repository/memory"
	"github.com/secmon-lab/issueboard/pkg/usecase"
)

func init() {
	color.NoColor = true
}

func newSeededUseCases(t *testing.T, policy model.DetectionPolicy) *usecase.UseCases {
	t.Helper()
	repo := memory.New()
	for _, issue := range []*model.Issue{
		{Title: "Login button broken", Description: "Clicking login does nothing", Priority: types.PriorityHigh, Status: types.IssueStatusOpen},
		{Title: "Dark mode support", Description: "Add a dark theme", Priority: types.PriorityLow, Status: types.IssueStatusInProgress},
	} {
		_, err := repo.Issue().Create(context.Background(), issue)
		gt.NoError(t, err).Required()
	}
	return usecase.New(repo, usecase.WithPolicy(policy))
}

func TestPrintReport(t *testing.T) {
	ctx := context.Background()
	uc := newSeededUseCases(t, model.DefaultDetectionPolicy())

	t.Run("matches", func(t *testing.T) {
		draft := model.IssueDraft{Title: "Login button broke", Description: "x"}
		report, err := uc.Duplicate.CheckDuplicates(ctx, draft)
		gt.NoError(t, err).Required()

		var buf bytes.Buffer
		cli.PrintReport(&buf, draft, report)
		out := buf.String()
		gt.String(t, out).Contains("Similar issues found (1 of 1 shown)")
		gt.String(t, out).Contains("Login button broken (95% similar) [Open] Title is similar")
	})

	t.Run("no matches", func(t *testing.T) {
		draft := model.IssueDraft{Title: "Export to PDF", Description: "Need PDF export"}
		report, err := uc.Duplicate.CheckDuplicates(ctx, draft)
		gt.NoError(t, err).Required()

		var buf bytes.Buffer
		cli.PrintReport(&buf, draft, report)
		gt.String(t, buf.String()).Contains("No similar issues among 2")
	})

	t.Run("blank draft", func(t *testing.T) {
		draft := model.IssueDraft{}
		report, err := uc.Duplicate.CheckDuplicates(ctx, draft)
		gt.NoError(t, err).Required()

		var buf bytes.Buffer
		cli.PrintReport(&buf, draft, report)
		gt.String(t, buf.String()).Contains("(empty draft)")
	})
}

func TestParseDraftLine(t *testing.T) {
	gt.Value(t, cli.ParseDraftLine("title only")).Equal(model.IssueDraft{Title: "title only"})
	gt.Value(t, cli.ParseDraftLine("t\tdesc\twith tab")).Equal(model.IssueDraft{Title: "t", Description: "desc\twith tab"})
}

func TestWatchDrafts(t *testing.T) {
	policy := model.DefaultDetectionPolicy()
	policy.Debounce = time.Hour
	uc := newSeededUseCases(t, policy)

	input := strings.NewReader("L\nLog\nLogin button\nLogin button broke\tnothing happens\n")
	var out bytes.Buffer
	gt.NoError(t, cli.WatchDrafts(context.Background(), input, &out, uc.Duplicate)).Required()

	// only the settled draft is checked
	gt.Number(t, strings.Count(out.String(), "Similar issues found")).Equal(1)
	gt.String(t, out.String()).Contains("Login button broken")
}

func TestGetIndexConfig(t *testing.T) {
	cfg := cli.GetIndexConfig("")
	gt.A(t, cfg.Collections).Length(1)
	gt.Value(t, cfg.Collections[0].Name).Equal("issues")
	gt.A(t, cfg.Collections[0].Indexes).Length(3)
	for _, idx := range cfg.Collections[0].Indexes {
		last := idx.Fields[len(idx.Fields)-1]
		gt.Value(t, last.Path).Equal("created_time")
	}

	gt.Value(t, cli.GetIndexConfig("staging").Collections[0].Name).Equal("staging_issues")
}

func TestRun_Version(t *testing.T) {
	gt.NoError(t, cli.Run(context.Background(), []string{"issueboard", "--log-output", "stderr", "--version"}, "test")).Required()
}
