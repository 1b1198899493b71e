package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/issueboard/pkg/cli/config"
	"github.com/secmon-lab/issueboard/pkg/domain/model/auth"
	"github.com/secmon-lab/issueboard/pkg/usecase"
	"github.com/secmon-lab/issueboard/pkg/utils/logging"
	"github.com/secmon-lab/issueboard/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdToken() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Manage API tokens",
		Commands: []*cli.Command{
			cmdTokenIssue(),
			cmdTokenRevoke(),
			cmdTokenPrune(),
		},
	}
}

func cmdTokenIssue() *cli.Command {
	var email string
	var name string
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "email",
			Usage:       "Email of the token owner, recorded as issue creator",
			Required:    true,
			Destination: &email,
		},
		&cli.StringFlag{
			Name:        "name",
			Usage:       "Display name of the token owner",
			Destination: &name,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "issue",
		Usage: "Issue a token and print it as a bearer credential",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			token, err := usecase.NewAuthUseCase(repo).IssueToken(ctx, email, name)
			if err != nil {
				return err
			}

			w := c.Root().Writer
			fmt.Fprintf(w, "token_id:     %s\n", token.ID)
			fmt.Fprintf(w, "token_secret: %s\n", token.Secret)
			fmt.Fprintf(w, "expires_at:   %s\n", token.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"))
			fmt.Fprintf(w, "Authorization: Bearer %s.%s\n", token.ID, token.Secret)
			return nil
		},
	}
}

func cmdTokenRevoke() *cli.Command {
	var tokenID string
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "id",
			Usage:       "Token ID to revoke",
			Required:    true,
			Destination: &tokenID,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "revoke",
		Usage: "Revoke a token",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			id := auth.TokenID(tokenID)
			if err := id.Validate(); err != nil {
				return err
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			if err := usecase.NewAuthUseCase(repo).Logout(ctx, id); err != nil {
				return err
			}
			logging.Default().Info("token revoked", "token_id", id)
			return nil
		},
	}
}

func cmdTokenPrune() *cli.Command {
	var repoCfg config.Repository

	return &cli.Command{
		Name:  "prune",
		Usage: "Delete expired tokens",
		Flags: repoCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			pruned, err := usecase.NewAuthUseCase(repo).PruneExpiredTokens(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.Root().Writer, "pruned %d expired token(s)\n", pruned)
			return nil
		},
	}
}
