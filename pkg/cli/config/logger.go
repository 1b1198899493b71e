package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/issueboard/pkg/utils/logging"
	"github.com/secmon-lab/issueboard/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

// Logger holds CLI flags for the process logger
type Logger struct {
	level  string
	format string
	output string
}

// Flags returns CLI flags for logger configuration
func (x *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Category:    "Logging",
			Value:       "info",
			Sources:     cli.EnvVars("ISSUEBOARD_LOG_LEVEL"),
			Destination: &x.level,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (console, json)",
			Category:    "Logging",
			Value:       string(logging.FormatConsole),
			Sources:     cli.EnvVars("ISSUEBOARD_LOG_FORMAT"),
			Destination: &x.format,
		},
		&cli.StringFlag{
			Name:        "log-output",
			Usage:       "Log output (stdout, stderr or file path)",
			Category:    "Logging",
			Value:       "stdout",
			Sources:     cli.EnvVars("ISSUEBOARD_LOG_OUTPUT"),
			Destination: &x.output,
		},
	}
}

func (x Logger) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("level", x.level),
		slog.String("format", x.format),
		slog.String("output", x.output),
	)
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, goerr.Wrap(ErrInvalidConfig, "invalid log level", goerr.V(FlagKey, "log-level"), goerr.V("level", s))
	}
}

// Configure installs the default logger. The returned function closes the
// log file, if any.
func (x *Logger) Configure() (func(), error) {
	level, err := parseLevel(x.level)
	if err != nil {
		return nil, err
	}

	closer := func() {}
	var w io.Writer
	switch x.output {
	case "", "stdout", "-":
		w = os.Stdout
	case "stderr":
		w = os.Stderr
	default:
		f, err := os.OpenFile(x.output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open log file", goerr.V("path", x.output))
		}
		w = f
		closer = func() { safe.Close(context.Background(), f) }
	}

	format := logging.Format(x.format)
	if format == "" {
		format = logging.FormatConsole
	}

	logger, err := logging.NewLogger(w, format, level)
	if err != nil {
		closer()
		return nil, goerr.Wrap(ErrInvalidConfig, err.Error(), goerr.V(FlagKey, "log-format"))
	}
	logging.SetDefault(logger)

	return closer, nil
}
