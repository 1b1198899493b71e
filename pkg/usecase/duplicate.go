package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/issueboard/pkg/domain/interfaces"
	"github.com/secmon-lab/issueboard/pkg/domain/model"
	"golang.org/x/sync/errgroup"
)

// DuplicateReport is the outcome of checking a draft against stored issues
type DuplicateReport struct {
	// Matches holds every issue at or above the threshold, most similar first
	Matches []*model.SimilarityMatch
	// Displayed is the head of Matches limited by the policy's DisplayLimit
	Displayed []*model.SimilarityMatch
	// Scanned is the number of stored issues compared with the draft
	Scanned int
}

// Total returns the number of matches before the display limit
func (x *DuplicateReport) Total() int {
	return len(x.Matches)
}

// HasMatches reports whether any existing issue looks like the draft
func (x *DuplicateReport) HasMatches() bool {
	return len(x.Matches) > 0
}

type DuplicateUseCase struct {
	repo   interfaces.Repository
	policy model.DetectionPolicy
}

func NewDuplicateUseCase(repo interfaces.Repository, policy model.DetectionPolicy) *DuplicateUseCase {
	return &DuplicateUseCase{
		repo:   repo,
		policy: policy,
	}
}

// CheckDuplicates compares the draft with every stored issue. A blank draft
// returns an empty report without reading the store.
func (uc *DuplicateUseCase) CheckDuplicates(ctx context.Context, draft model.IssueDraft) (*DuplicateReport, error) {
	if draft.IsBlank() {
		return uc.newReport(nil, 0), nil
	}

	existing, err := uc.repo.Issue().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch issues for duplicate check")
	}

	matches, err := uc.FindSimilar(ctx, draft, existing)
	if err != nil {
		return nil, err
	}

	return uc.newReport(matches, len(existing)), nil
}

// FindSimilar ranks existing against the draft with the policy threshold.
// Large inputs are split into contiguous shards scored concurrently; the
// shards are joined in input order before the stable ranking, so the result
// is the same as a sequential scan.
func (uc *DuplicateUseCase) FindSimilar(ctx context.Context, draft model.IssueDraft, existing []*model.Issue) ([]*model.SimilarityMatch, error) {
	workers := uc.policy.Workers
	if len(existing) <= uc.policy.ParallelThreshold || workers <= 1 || draft.IsBlank() {
		return model.FindSimilar(draft, existing, model.WithThreshold(uc.policy.Threshold)), nil
	}

	if workers > len(existing) {
		workers = len(existing)
	}
	shardSize := (len(existing) + workers - 1) / workers
	shards := make([][]*model.SimilarityMatch, workers)

	eg, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		begin := w * shardSize
		end := min(begin+shardSize, len(existing))
		if begin >= end {
			continue
		}

		eg.Go(func() error {
			var found []*model.SimilarityMatch
			for _, issue := range existing[begin:end] {
				if err := ctx.Err(); err != nil {
					return goerr.Wrap(err, "duplicate scan cancelled")
				}
				if m := model.MatchIssue(draft, issue, uc.policy.Threshold); m != nil {
					found = append(found, m)
				}
			}
			shards[w] = found
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	matches := []*model.SimilarityMatch{}
	for _, found := range shards {
		matches = append(matches, found...)
	}
	model.RankMatches(matches)

	return matches, nil
}

func (uc *DuplicateUseCase) newReport(matches []*model.SimilarityMatch, scanned int) *DuplicateReport {
	if matches == nil {
		matches = []*model.SimilarityMatch{}
	}

	limit := min(uc.policy.DisplayLimit, len(matches))
	return &DuplicateReport{
		Matches:   matches,
		Displayed: matches[:max(limit, 0)],
		Scanned:   scanned,
	}
}
