package logging

import (
	"io"
	"log/slog"

	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/masq"
)

// Format selects the log encoding
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// NewLogger builds a logger writing to w. Secrets are redacted through masq
// in both formats: struct fields tagged `masq:"secret"`, fields named Secret*
// and values carrying a Slack bot token.
func NewLogger(w io.Writer, format Format, level slog.Level) (*slog.Logger, error) {
	filter := masq.New(
		masq.WithTag("secret"),
		masq.WithFieldPrefix("Secret"),
		masq.WithContain("xoxb-"),
	)

	switch format {
	case FormatConsole:
		handler := clog.New(
			clog.WithWriter(w),
			clog.WithLevel(level),
			clog.WithReplaceAttr(filter),
			clog.WithSource(true),
		)
		return slog.New(handler), nil

	case FormatJSON:
		handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource:   true,
			Level:       level,
			ReplaceAttr: filter,
		})
		return slog.New(handler), nil

	default:
		return nil, goerr.New("unsupported log format", goerr.V("format", format))
	}
}
