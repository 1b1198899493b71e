package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/issueboard/pkg/domain/types"
)

// Issue is a tracked issue record. Fields other than Status are fixed once
// the issue is stored.
type Issue struct {
	ID          types.IssueID     `firestore:"-" json:"id"`
	Title       string            `firestore:"title" json:"title"`
	Description string            `firestore:"description" json:"description"`
	Priority    types.Priority    `firestore:"priority" json:"priority"`
	Status      types.IssueStatus `firestore:"status" json:"status"`
	AssignedTo  string            `firestore:"assigned_to" json:"assigned_to,omitempty"`
	CreatedBy   string            `firestore:"created_by" json:"created_by"`
	CreatedTime time.Time         `firestore:"created_time" json:"created_time"`
}

// Validate checks that the issue can be stored
func (x *Issue) Validate() error {
	if strings.TrimSpace(x.Title) == "" {
		return goerr.Wrap(ErrValidation, "issue title is required")
	}
	if strings.TrimSpace(x.Description) == "" {
		return goerr.Wrap(ErrValidation, "issue description is required")
	}
	if !x.Priority.IsValid() {
		return goerr.Wrap(ErrValidation, "invalid priority", goerr.V("priority", x.Priority))
	}
	if !x.Status.IsValid() {
		return goerr.Wrap(ErrValidation, "invalid status", goerr.V("status", x.Status))
	}
	return nil
}

// Copy returns a shallow copy of the issue. Issue holds no reference fields,
// so the copy is independent of the original.
func (x *Issue) Copy() *Issue {
	copied := *x
	return &copied
}

// Draft returns the text fields of the issue used for duplicate detection
func (x *Issue) Draft() IssueDraft {
	return IssueDraft{Title: x.Title, Description: x.Description}
}

// IssueDraft is the text of an issue that is being written and has not been stored yet
type IssueDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// IsBlank reports whether both title and description are empty or whitespace only
func (x IssueDraft) IsBlank() bool {
	return strings.TrimSpace(x.Title) == "" && strings.TrimSpace(x.Description) == ""
}
