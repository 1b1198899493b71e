package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/issueboard/pkg/domain/model"
	"github.com/secmon-lab/issueboard/pkg/domain/types"
)

func TestIssue_Validate(t *testing.T) {
	valid := func() *model.Issue {
		return &model.Issue{
			Title:       "Broken link",
			Description: "Footer link points to a 404",
			Priority:    types.PriorityLow,
			Status:      types.IssueStatusOpen,
		}
	}

	gt.NoError(t, valid().Validate())

	testCases := []struct {
		name   string
		mutate func(*model.Issue)
	}{
		{name: "blank title", mutate: func(x *model.Issue) { x.Title = "  " }},
		{name: "blank description", mutate: func(x *model.Issue) { x.Description = "" }},
		{name: "bad priority", mutate: func(x *model.Issue) { x.Priority = "Urgent" }},
		{name: "bad status", mutate: func(x *model.Issue) { x.Status = "Closed" }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			issue := valid()
			tc.mutate(issue)
			gt.Error(t, issue.Validate()).Is(model.ErrValidation)
		})
	}
}

func TestIssue_Copy(t *testing.T) {
	orig := &model.Issue{ID: "1", Title: "a", CreatedTime: time.Now()}
	copied := orig.Copy()
	copied.Title = "b"
	gt.V(t, orig.Title).Equal("a")
}

func TestIssueDraft_IsBlank(t *testing.T) {
	gt.Bool(t, model.IssueDraft{}.IsBlank()).True()
	gt.Bool(t, model.IssueDraft{Title: " \t", Description: "\n"}.IsBlank()).True()
	gt.Bool(t, model.IssueDraft{Title: "x"}.IsBlank()).False()
	gt.Bool(t, model.IssueDraft{Description: "x"}.IsBlank()).False()
}

func TestDetectionPolicy_Validate(t *testing.T) {
	policy := model.DefaultDetectionPolicy()
	gt.NoError(t, policy.Validate())
	gt.V(t, policy.Threshold).Equal(0.6)
	gt.V(t, policy.DisplayLimit).Equal(3)
	gt.V(t, policy.Debounce).Equal(500 * time.Millisecond)

	bad := policy
	bad.Threshold = 1.5
	gt.Error(t, bad.Validate()).Is(model.ErrValidation)

	bad = policy
	bad.DisplayLimit = 0
	gt.Error(t, bad.Validate()).Is(model.ErrValidation)

	bad = policy
	bad.Workers = 0
	gt.Error(t, bad.Validate()).Is(model.ErrValidation)
}
