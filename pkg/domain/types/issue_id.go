package types

// IssueID is the identifier assigned to an issue by the store
type IssueID string

func (id IssueID) String() string {
	return string(id)
}

// IsEmpty reports whether the issue has not been persisted yet
func (id IssueID) IsEmpty() bool {
	return id == ""
}
