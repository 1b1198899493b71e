package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/issueboard/pkg/domain/interfaces"
	"github.com/secmon-lab/issueboard/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Auth holds CLI flags for request authentication
type Auth struct {
	noAuth   bool
	devEmail string
	devName  string
}

func (x *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "no-auth",
			Usage:       "Skip authentication and act as the development user (development only)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("ISSUEBOARD_NO_AUTH"),
			Destination: &x.noAuth,
		},
		&cli.StringFlag{
			Name:        "dev-user-email",
			Usage:       "Email of the development user in no-auth mode",
			Category:    "Authentication",
			Value:       usecase.DevUserEmail,
			Sources:     cli.EnvVars("ISSUEBOARD_DEV_USER_EMAIL"),
			Destination: &x.devEmail,
		},
		&cli.StringFlag{
			Name:        "dev-user-name",
			Usage:       "Name of the development user in no-auth mode",
			Category:    "Authentication",
			Value:       usecase.DevUserName,
			Sources:     cli.EnvVars("ISSUEBOARD_DEV_USER_NAME"),
			Destination: &x.devName,
		},
	}
}

func (x Auth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("no_auth", x.noAuth),
		slog.String("dev_user", x.devEmail),
	)
}

// IsNoAuthMode returns true if no-auth mode is enabled
func (x *Auth) IsNoAuthMode() bool {
	return x.noAuth
}

// Configure returns the token based AuthUseCase, or NoAuthnUseCase in no-auth mode
func (x *Auth) Configure(repo interfaces.Repository) (usecase.AuthUseCaseInterface, error) {
	if x.noAuth {
		if x.devEmail == "" {
			return nil, goerr.Wrap(ErrMissingValue, "--dev-user-email is required in no-auth mode")
		}
		return usecase.NewNoAuthnUseCase(x.devEmail, x.devName), nil
	}
	return usecase.NewAuthUseCase(repo), nil
}
