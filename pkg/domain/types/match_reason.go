package types

// MatchReason tells which fields of an existing issue made it similar to a draft
type MatchReason string

const (
	MatchReasonTitle       MatchReason = "title"
	MatchReasonDescription MatchReason = "description"
	MatchReasonBoth        MatchReason = "both"
)

// String returns the string representation of the match reason
func (r MatchReason) String() string {
	return string(r)
}

// Text returns the sentence shown next to a similar issue warning
func (r MatchReason) Text() string {
	switch r {
	case MatchReasonBoth:
		return "Title and description are similar"
	case MatchReasonTitle:
		return "Title is similar"
	case MatchReasonDescription:
		return "Description is similar"
	default:
		return ""
	}
}
