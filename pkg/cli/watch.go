package cli

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/issueboard/pkg/cli/config"
	"github.com/secmon-lab/issueboard/pkg/domain/model"
	"github.com/secmon-lab/issueboard/pkg/usecase"
	"github.com/secmon-lab/issueboard/pkg/utils/errutil"
	"github.com/secmon-lab/issueboard/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

// parseDraftLine reads "title<TAB>description". A line without a tab is a title only.
func parseDraftLine(line string) model.IssueDraft {
	title, description, _ := strings.Cut(line, "\t")
	return model.IssueDraft{Title: title, Description: description}
}

// watchDrafts feeds every line of r to a draft session as a new version of
// the draft. Only versions that stay unchanged for the debounce interval are
// checked; the last one is checked at end of input.
func watchDrafts(ctx context.Context, r io.Reader, w io.Writer, uc *usecase.DuplicateUseCase) error {
	var mu sync.Mutex
	session := usecase.NewDraftSession(ctx, uc, 0, func(draft model.IssueDraft, report *usecase.DuplicateReport, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			_ = errutil.Handle(ctx, err, "duplicate check failed")
			return
		}
		printReport(w, draft, report)
	})
	defer session.Close()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return goerr.Wrap(err, "watch cancelled")
		}
		session.Update(parseDraftLine(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return goerr.Wrap(err, "failed to read drafts")
	}

	session.Flush()
	return nil
}

func cmdWatch() *cli.Command {
	var repoCfg config.Repository
	var policyCfg config.Policy

	var flags []cli.Flag
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, policyCfg.Flags()...)

	return &cli.Command{
		Name:    "watch",
		Aliases: []string{"w"},
		Usage:   "Read draft edits from stdin (title<TAB>description per line) and report similar issues as they settle",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			policy, err := policyCfg.Configure(c)
			if err != nil {
				return goerr.Wrap(err, "failed to configure detection policy")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			uc := usecase.New(repo, usecase.WithPolicy(policy))
			return watchDrafts(ctx, c.Root().Reader, c.Root().Writer, uc.Duplicate)
		},
	}
}
