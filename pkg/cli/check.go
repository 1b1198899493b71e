package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/issueboard/pkg/cli/config"
	"github.com/secmon-lab/issueboard/pkg/domain/model"
	"github.com/secmon-lab/issueboard/pkg/usecase"
	"github.com/secmon-lab/issueboard/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

// ErrDuplicateFound is returned by check with --fail-on-match when a similar issue exists
var ErrDuplicateFound = goerr.New("similar issue exists")

func cmdCheck() *cli.Command {
	var title string
	var description string
	var failOnMatch bool
	var repoCfg config.Repository
	var policyCfg config.Policy

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "title",
			Aliases:     []string{"t"},
			Usage:       "Title of the draft issue",
			Destination: &title,
		},
		&cli.StringFlag{
			Name:        "description",
			Aliases:     []string{"d"},
			Usage:       "Description of the draft issue",
			Destination: &description,
		},
		&cli.BoolFlag{
			Name:        "fail-on-match",
			Usage:       "Exit with an error when a similar issue exists",
			Destination: &failOnMatch,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, policyCfg.Flags()...)

	return &cli.Command{
		Name:    "check",
		Aliases: []string{"c"},
		Usage:   "Check a draft issue against stored issues",
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
			draft := model.IssueDraft{Title: title, Description: description}

			report, err := uc.Duplicate.CheckDuplicates(ctx, draft)
			if err != nil {
				return err
			}

			printReport(c.Root().Writer, draft, report)

			if failOnMatch && report.HasMatches() {
				return goerr.Wrap(ErrDuplicateFound, "draft looks like an existing issue",
					goerr.V("matches", report.Total()))
			}
			return nil
		},
	}
}
