package config

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/issueboard/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// Policy holds CLI flags for the duplicate detection policy. Values come from
// the defaults, then the policy file, then flags that were set explicitly.
type Policy struct {
	file              string
	threshold         float64
	displayLimit      int
	debounce          time.Duration
	parallelThreshold int
	workers           int
}

const (
	flagPolicyFile        = "policy-file"
	flagThreshold         = "similarity-threshold"
	flagDisplayLimit      = "display-limit"
	flagDebounce          = "debounce"
	flagParallelThreshold = "parallel-threshold"
	flagWorkers           = "scan-workers"
)

// Flags returns CLI flags for detection policy configuration
func (x *Policy) Flags() []cli.Flag {
	def := model.DefaultDetectionPolicy()
	return []cli.Flag{
		&cli.StringFlag{
			Name:        flagPolicyFile,
			Usage:       "TOML file with detection policy",
			Category:    "Detection",
			Sources:     cli.EnvVars("ISSUEBOARD_POLICY_FILE"),
			Destination: &x.file,
		},
		&cli.FloatFlag{
			Name:        flagThreshold,
			Usage:       "Minimum similarity (0.0-1.0) to report an existing issue",
			Category:    "Detection",
			Value:       def.Threshold,
			Sources:     cli.EnvVars("ISSUEBOARD_SIMILARITY_THRESHOLD"),
			Destination: &x.threshold,
		},
		&cli.IntFlag{
			Name:        flagDisplayLimit,
			Usage:       "Maximum number of similar issues shown",
			Category:    "Detection",
			Value:       def.DisplayLimit,
			Sources:     cli.EnvVars("ISSUEBOARD_DISPLAY_LIMIT"),
			Destination: &x.displayLimit,
		},
		&cli.DurationFlag{
			Name:        flagDebounce,
			Usage:       "Quiet period before a draft is checked",
			Category:    "Detection",
			Value:       def.Debounce,
			Sources:     cli.EnvVars("ISSUEBOARD_DEBOUNCE"),
			Destination: &x.debounce,
		},
		&cli.IntFlag{
			Name:        flagParallelThreshold,
			Usage:       "Number of stored issues above which the scan runs in parallel",
			Category:    "Detection",
			Value:       def.ParallelThreshold,
			Sources:     cli.EnvVars("ISSUEBOARD_PARALLEL_THRESHOLD"),
			Destination: &x.parallelThreshold,
		},
		&cli.IntFlag{
			Name:        flagWorkers,
			Usage:       "Number of goroutines of a parallel scan",
			Category:    "Detection",
			Value:       def.Workers,
			Sources:     cli.EnvVars("ISSUEBOARD_SCAN_WORKERS"),
			Destination: &x.workers,
		},
	}
}

func (x Policy) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("file", x.file),
		slog.Float64("threshold", x.threshold),
		slog.Int("display_limit", x.displayLimit),
		slog.Duration("debounce", x.debounce),
	)
}

// Configure builds the detection policy from the policy file and the flags
// set on c
func (x *Policy) Configure(c *cli.Command) (model.DetectionPolicy, error) {
	policy := model.DefaultDetectionPolicy()

	if x.file != "" {
		loaded, err := LoadPolicy(x.file, policy)
		if err != nil {
			return model.DetectionPolicy{}, err
		}
		policy = loaded
	}

	if c.IsSet(flagThreshold) {
		policy.Threshold = x.threshold
	}
	if c.IsSet(flagDisplayLimit) {
		policy.DisplayLimit = x.displayLimit
	}
	if c.IsSet(flagDebounce) {
		policy.Debounce = x.debounce
	}
	if c.IsSet(flagParallelThreshold) {
		policy.ParallelThreshold = x.parallelThreshold
	}
	if c.IsSet(flagWorkers) {
		policy.Workers = x.workers
	}

	if err := policy.Validate(); err != nil {
		return model.DetectionPolicy{}, goerr.Wrap(ErrInvalidConfig, err.Error())
	}
	return policy, nil
}

// policyFile is the TOML layout of a policy file. Missing keys keep the base value.
type policyFile struct {
	Threshold         *float64 `toml:"threshold"`
	DisplayLimit      *int     `toml:"display_limit"`
	Debounce          *string  `toml:"debounce"`
	ParallelThreshold *int     `toml:"parallel_threshold"`
	Workers           *int     `toml:"workers"`
}

// LoadPolicy reads a TOML policy file and applies it on top of base
func LoadPolicy(path string, base model.DetectionPolicy) (model.DetectionPolicy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return base, goerr.Wrap(ErrConfigNotFound, "policy file not found", goerr.V(ConfigPathKey, path))
		}
		return base, goerr.Wrap(err, "failed to read policy file", goerr.V(ConfigPathKey, path))
	}

	var file policyFile
	dec := toml.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return base, goerr.Wrap(ErrInvalidConfig, "failed to parse policy file",
			goerr.V(ConfigPathKey, path), goerr.V("cause", err.Error()))
	}

	policy := base
	if file.Threshold != nil {
		policy.Threshold = *file.Threshold
	}
	if file.DisplayLimit != nil {
		policy.DisplayLimit = *file.DisplayLimit
	}
	if file.Debounce != nil {
		d, err := time.ParseDuration(*file.Debounce)
		if err != nil {
			return base, goerr.Wrap(ErrInvalidConfig, "invalid debounce in policy file",
				goerr.V(ConfigPathKey, path), goerr.V("debounce", *file.Debounce))
		}
		policy.Debounce = d
	}
	if file.ParallelThreshold != nil {
		policy.ParallelThreshold = *file.ParallelThreshold
	}
	if file.Workers != nil {
		policy.Workers = *file.Workers
	}

	if err := policy.Validate(); err != nil {
		return base, goerr.Wrap(ErrInvalidConfig, err.Error(), goerr.V(ConfigPathKey, path))
	}
	return policy, nil
}
