package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/issueboard/pkg/cli/config"
	httpctrl "github.com/secmon-lab/issueboard/pkg/controller/http"
	"github.com/secmon-lab/issueboard/pkg/usecase"
	"github.com/secmon-lab/issueboard/pkg/utils/logging"
	"github.com/secmon-lab/issueboard/pkg/utils/safe"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"
)

func cmdServe() *cli.Command {
	var addr string
	var similarRate float64
	var similarBurst int
	var repoCfg config.Repository
	var policyCfg config.Policy
	var slackCfg config.Slack
	var authCfg config.Auth

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("ISSUEBOARD_ADDR"),
			Destination: &addr,
		},
		&cli.FloatFlag{
			Name:        "similar-rate",
			Usage:       "Duplicate checks allowed per second and client (0 disables the limit)",
			Value:       float64(httpctrl.DefaultSimilarRate),
			Sources:     cli.EnvVars("ISSUEBOARD_SIMILAR_RATE"),
			Destination: &similarRate,
		},
		&cli.IntFlag{
			Name:        "similar-burst",
			Usage:       "Burst of duplicate checks allowed per client",
			Value:       httpctrl.DefaultSimilarBurst,
			Sources:     cli.EnvVars("ISSUEBOARD_SIMILAR_BURST"),
			Destination: &similarBurst,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, policyCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, authCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
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

			authUC, err := authCfg.Configure(repo)
			if err != nil {
				return goerr.Wrap(err, "failed to configure authentication")
			}
			if authCfg.IsNoAuthMode() {
				logging.Default().Warn("Running in no-auth mode (development only)", "auth", authCfg)
			}

			ucOpts := []usecase.Option{
				usecase.WithAuth(authUC),
				usecase.WithPolicy(policy),
			}

			notifier, err := slackCfg.Configure(policy)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Slack")
			}
			if notifier != nil {
				ucOpts = append(ucOpts, usecase.WithNotifier(notifier))
				logging.Default().Info("Slack notification enabled", "slack", slackCfg)
			}

			uc := usecase.New(repo, ucOpts...)

			limit := rate.Limit(similarRate)
			if similarRate <= 0 {
				limit = rate.Inf
			}
			httpHandler := httpctrl.New(uc, httpctrl.WithSimilarRateLimit(limit, similarBurst))

			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr, "policy", policyCfg)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logging.Default().Info("Server shutdown completed")
			return nil
		},
	}
}
