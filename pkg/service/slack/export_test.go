package slack

// Export internal functions for testing
var (
	TruncateRunes = truncateRunes
	Escape        = escape
)
