package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/issueboard/pkg/utils/logging"
)

func TestNewLogger_JSONRedactsSecrets(t *testing.T) {
	type credential struct {
		Name   string
		Secret string `masq:"secret"`
	}

	var buf bytes.Buffer
	logger, err := logging.NewLogger(&buf, logging.FormatJSON, slog.LevelInfo)
	gt.NoError(t, err).Required()

	logger.Info("issued", "cred", credential{Name: "alice", Secret: "s3cr3t-value"})
	gt.String(t, buf.String()).Contains("alice")
	gt.Bool(t, strings.Contains(buf.String(), "s3cr3t-value")).False()
}

func TestNewLogger_UnknownFormat(t *testing.T) {
	_, err := logging.NewLogger(&bytes.Buffer{}, logging.Format("xml"), slog.LevelInfo)
	gt.Error(t, err)
}

func TestFrom(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.NewLogger(&buf, logging.FormatJSON, slog.LevelDebug)
	gt.NoError(t, err).Required()

	ctx := logging.With(context.Background(), logger)
	logging.From(ctx).Debug("from context")
	gt.String(t, buf.String()).Contains("from context")

	gt.Value(t, logging.From(context.Background())).Equal(logging.Default())
}
