package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// DetectionPolicy holds the tunables of duplicate detection
type DetectionPolicy struct {
	// Threshold is the minimum score to flag an existing issue as similar
	Threshold float64
	// DisplayLimit is the maximum number of matches surfaced to the user
	DisplayLimit int
	// Debounce is how long draft text must stay unchanged before a check runs
	Debounce time.Duration
	// ParallelThreshold is the number of existing issues above which the scan is sharded
	ParallelThreshold int
	// Workers is the number of shards used for a parallel scan
	Workers int
}

// DefaultDetectionPolicy returns the policy used when nothing is configured
func DefaultDetectionPolicy() DetectionPolicy {
	return DetectionPolicy{
		Threshold:         DefaultSimilarityThreshold,
		DisplayLimit:      3,
		Debounce:          500 * time.Millisecond,
		ParallelThreshold: 1000,
		Workers:           4,
	}
}

// Validate checks the policy values are usable
func (x DetectionPolicy) Validate() error {
	if x.Threshold < 0 || x.Threshold > 1 {
		return goerr.Wrap(ErrValidation, "threshold must be between 0 and 1", goerr.V("threshold", x.Threshold))
	}
	if x.DisplayLimit < 1 {
		return goerr.Wrap(ErrValidation, "display limit must be positive", goerr.V("display_limit", x.DisplayLimit))
	}
	if x.Debounce < 0 {
		return goerr.Wrap(ErrValidation, "debounce must not be negative", goerr.V("debounce", x.Debounce))
	}
	if x.Workers < 1 {
		return goerr.Wrap(ErrValidation, "workers must be positive", goerr.V("workers", x.Workers))
	}
	return nil
}
