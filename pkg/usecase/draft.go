package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/secmon-lab/issueboard/pkg/domain/model"
	"github.com/secmon-lab/issueboard/pkg/utils/debounce"
)

// DraftReportFunc receives the outcome of a debounced duplicate check
type DraftReportFunc func(draft model.IssueDraft, report *DuplicateReport, err error)

// DraftSession follows a draft while it is being edited and runs a duplicate
// check once the text has been stable for the debounce interval. A new edit
// supersedes a check that has not started yet. Checks never overlap.
type DraftSession struct {
	ctx       context.Context
	duplicate *DuplicateUseCase
	debouncer *debounce.Debouncer
	onReport  DraftReportFunc

	run sync.Mutex
}

// NewDraftSession starts a session. interval of zero or less uses the
// debounce of the policy given to the DuplicateUseCase.
func NewDraftSession(ctx context.Context, duplicate *DuplicateUseCase, interval time.Duration, onReport DraftReportFunc) *DraftSession {
	if interval <= 0 {
		interval = duplicate.policy.Debounce
	}

	return &DraftSession{
		ctx:       ctx,
		duplicate: duplicate,
		debouncer: debounce.New(interval),
		onReport:  onReport,
	}
}

// Update records the latest draft text
func (s *DraftSession) Update(draft model.IssueDraft) {
	s.debouncer.Trigger(func() { s.check(draft) })
}

// Flush runs the pending check now, if any, and returns once no check is
// running. It reports whether a pending check was run by this call.
func (s *DraftSession) Flush() bool {
	ran := s.debouncer.Flush()

	// A check started by the timer may still be in flight
	s.run.Lock()
	defer s.run.Unlock()

	return ran
}

// Close drops any pending check
func (s *DraftSession) Close() {
	s.debouncer.Stop()
}

func (s *DraftSession) check(draft model.IssueDraft) {
	s.run.Lock()
	defer s.run.Unlock()

	report, err := s.duplicate.CheckDuplicates(s.ctx, draft)
	s.onReport(draft, report, err)
}
