package model

import (
	"math"
	"sort"

	"github.com/secmon-lab/issueboard/pkg/domain/types"
)

// DefaultSimilarityThreshold is the lowest score at which an existing issue
// is reported as a possible duplicate
const DefaultSimilarityThreshold = 0.6

// SimilarityMatch is an existing issue that looks like a draft. Issue is a
// read-only view of the stored record; matches are never persisted.
type SimilarityMatch struct {
	Issue            *Issue
	Score            float64
	Reason           types.MatchReason
	TitleScore       float64
	DescriptionScore float64
}

// Percent returns Score as a rounded percentage for display
func (x *SimilarityMatch) Percent() int {
	return int(math.Round(x.Score * 100))
}

type detectConfig struct {
	threshold float64
}

// DetectOption configures FindSimilar
type DetectOption func(*detectConfig)

// WithThreshold overrides DefaultSimilarityThreshold
func WithThreshold(threshold float64) DetectOption {
	return func(c *detectConfig) {
		c.threshold = threshold
	}
}

func buildDetectConfig(opts ...DetectOption) *detectConfig {
	cfg := &detectConfig{threshold: DefaultSimilarityThreshold}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// FindSimilar scores every existing issue against the draft and returns the
// ones whose title or description reaches the threshold, most similar first.
// Issues with equal scores keep their order in existing. The result is never
// nil; a blank draft yields no matches.
func FindSimilar(draft IssueDraft, existing []*Issue, opts ...DetectOption) []*SimilarityMatch {
	matches := []*SimilarityMatch{}
	if draft.IsBlank() {
		return matches
	}

	cfg := buildDetectConfig(opts...)
	for _, issue := range existing {
		if m := MatchIssue(draft, issue, cfg.threshold); m != nil {
			matches = append(matches, m)
		}
	}

	RankMatches(matches)
	return matches
}

// MatchIssue compares a single existing issue with the draft. It returns nil
// when neither field reaches threshold.
func MatchIssue(draft IssueDraft, issue *Issue, threshold float64) *SimilarityMatch {
	if issue == nil {
		return nil
	}

	titleScore := Similarity(draft.Title, issue.Title)
	descScore := Similarity(draft.Description, issue.Description)
	score := max(titleScore, descScore)
	if score < threshold {
		return nil
	}

	var reason types.MatchReason
	switch {
	case titleScore >= threshold && descScore >= threshold:
		reason = types.MatchReasonBoth
	case titleScore >= threshold:
		reason = types.MatchReasonTitle
	default:
		reason = types.MatchReasonDescription
	}

	return &SimilarityMatch{
		Issue:            issue,
		Score:            score,
		Reason:           reason,
		TitleScore:       titleScore,
		DescriptionScore: descScore,
	}
}

// RankMatches sorts matches by score, highest first, keeping the relative
// order of equal scores.
func RankMatches(matches []*SimilarityMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
}
