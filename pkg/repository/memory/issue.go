package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/issueboard/pkg/domain/interfaces"
	"github.com/secmon-lab/issueboard/pkg/domain/model"
	"github.com/secmon-lab/issueboard/pkg/domain/types"
)

type issueEntry struct {
	issue *model.Issue
	seq   int64
}

type issueRepository struct {
	mu     sync.RWMutex
	issues map[types.IssueID]*issueEntry
	seq    int64
}

func newIssueRepository() *issueRepository {
	return &issueRepository{
		issues: make(map[types.IssueID]*issueEntry),
	}
}

func (r *issueRepository) Create(ctx context.Context, issue *model.Issue) (*model.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := issue.Copy()
	created.ID = types.IssueID(uuid.New().String())
	if created.CreatedTime.IsZero() {
		created.CreatedTime = time.Now().UTC()
	}

	r.seq++
	r.issues[created.ID] = &issueEntry{issue: created, seq: r.seq}
	return created.Copy(), nil
}

func (r *issueRepository) Get(ctx context.Context, id types.IssueID) (*model.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.issues[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "issue not found", goerr.V("id", id))
	}

	return entry.issue.Copy(), nil
}

func (r *issueRepository) List(ctx context.Context, opts ...interfaces.ListIssueOption) ([]*model.Issue, error) {
	cfg := interfaces.BuildListIssueConfig(opts...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*issueEntry, 0, len(r.issues))
	for _, entry := range r.issues {
		if cfg.Match(entry.issue.Status, entry.issue.Priority) {
			entries = append(entries, entry)
		}
	}

	// Newest first; insertion order breaks ties so results are stable
	sort.Slice(entries, func(i, j int) bool {
		ti, tj := entries[i].issue.CreatedTime, entries[j].issue.CreatedTime
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return entries[i].seq > entries[j].seq
	})

	issues := make([]*model.Issue, len(entries))
	for i, entry := range entries {
		issues[i] = entry.issue.Copy()
	}
	return issues, nil
}

func (r *issueRepository) UpdateStatus(ctx context.Context, id types.IssueID, status types.IssueStatus, guard interfaces.StatusGuard) (*model.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.issues[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "issue not found", goerr.V("id", id))
	}

	if guard != nil {
		if err := guard(entry.issue.Copy()); err != nil {
			return nil, err
		}
	}

	entry.issue.Status = status
	return entry.issue.Copy(), nil
}
