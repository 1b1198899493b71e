package cli

var (
	PrintReport    = printReport
	ParseDraftLine = parseDraftLine
	WatchDrafts    = watchDrafts
	GetIndexConfig = getIndexConfig
)
