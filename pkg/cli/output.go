package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/secmon-lab/issueboard/pkg/domain/model"
	"github.com/secmon-lab/issueboard/pkg/usecase"
)

var (
	warnColor  = color.New(color.FgYellow, color.Bold)
	scoreColor = color.New(color.FgRed)
	okColor    = color.New(color.FgGreen)
	dimColor   = color.New(color.Faint)
)

// printReport writes the displayed matches of report the way the web form
// shows them
func printReport(w io.Writer, draft model.IssueDraft, report *usecase.DuplicateReport) {
	if draft.IsBlank() {
		dimColor.Fprintln(w, "(empty draft)")
		return
	}

	if !report.HasMatches() {
		okColor.Fprintf(w, "No similar issues among %d\n", report.Scanned)
		return
	}

	warnColor.Fprintf(w, "Similar issues found (%d of %d shown)\n", len(report.Displayed), report.Total())
	for _, m := range report.Displayed {
		fmt.Fprintf(w, "  - %s ", m.Issue.Title)
		scoreColor.Fprintf(w, "(%d%% similar)", m.Percent())
		fmt.Fprintf(w, " [%s] %s\n", m.Issue.Status, m.Reason.Text())
		dimColor.Fprintf(w, "    id: %s\n", m.Issue.ID)
	}
}
