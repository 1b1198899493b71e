package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/issueboard/pkg/cli/config"
	"github.com/secmon-lab/issueboard/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func writePolicyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestLoadPolicy(t *testing.T) {
	base := model.DefaultDetectionPolicy()

	t.Run("overrides only given keys", func(t *testing.T) {
		path := writePolicyFile(t, `
threshold = 0.75
debounce = "250ms"
`)
		policy, err := config.LoadPolicy(path, base)
		gt.NoError(t, err).Required()
		gt.Value(t, policy.Threshold).Equal(0.75)
		gt.Value(t, policy.Debounce).Equal(250 * time.Millisecond)
		gt.Value(t, policy.DisplayLimit).Equal(base.DisplayLimit)
		gt.Value(t, policy.Workers).Equal(base.Workers)
	})

	t.Run("all keys", func(t *testing.T) {
		path := writePolicyFile(t, `
threshold = 0.5
display_limit = 5
debounce = "1s"
parallel_threshold = 200
workers = 8
`)
		policy, err := config.LoadPolicy(path, base)
		gt.NoError(t, err).Required()
		gt.Value(t, policy).Equal(model.DetectionPolicy{
			Threshold:         0.5,
			DisplayLimit:      5,
			Debounce:          time.Second,
			ParallelThreshold: 200,
			Workers:           8,
		})
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadPolicy(filepath.Join(t.TempDir(), "none.toml"), base)
		gt.Error(t, err).Is(config.ErrConfigNotFound)
	})

	t.Run("unknown key", func(t *testing.T) {
		path := writePolicyFile(t, `thresold = 0.5`)
		_, err := config.LoadPolicy(path, base)
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("threshold out of range", func(t *testing.T) {
		path := writePolicyFile(t, `threshold = 1.5`)
		_, err := config.LoadPolicy(path, base)
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("invalid debounce", func(t *testing.T) {
		path := writePolicyFile(t, `debounce = "soon"`)
		_, err := config.LoadPolicy(path, base)
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})
}

func runPolicyCommand(t *testing.T, args ...string) (model.DetectionPolicy, error) {
	t.Helper()

	var cfg config.Policy
	var policy model.DetectionPolicy
	var cfgErr error

	cmd := &cli.Command{
		Name:  "test",
		Flags: cfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			policy, cfgErr = cfg.Configure(c)
			return nil
		},
	}
	gt.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...))).Required()
	return policy, cfgErr
}

func TestPolicy_Configure(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		policy, err := runPolicyCommand(t)
		gt.NoError(t, err).Required()
		gt.Value(t, policy).Equal(model.DefaultDetectionPolicy())
	})

	t.Run("flags override file", func(t *testing.T) {
		path := writePolicyFile(t, `
threshold = 0.7
display_limit = 5
`)
		policy, err := runPolicyCommand(t, "--policy-file", path, "--display-limit", "2")
		gt.NoError(t, err).Required()
		gt.Value(t, policy.Threshold).Equal(0.7)
		gt.Value(t, policy.DisplayLimit).Equal(2)
	})

	t.Run("invalid flag value", func(t *testing.T) {
		_, err := runPolicyCommand(t, "--scan-workers", "0")
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})
}
