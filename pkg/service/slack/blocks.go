package slack

import (
	"fmt"
	"strings"

	"github.com/secmon-lab/issueboard/pkg/domain/model"
	"github.com/slack-go/slack"
)

// Slack rejects header text over 150 characters and section text over 3000
const (
	maxHeaderRunes      = 150
	maxDescriptionRunes = 500
)

// BuildIssueBlocks renders a new issue and up to limit similar issues as Block Kit blocks
func BuildIssueBlocks(issue *model.Issue, similar []*model.SimilarityMatch, baseURL string, limit int) []slack.Block {
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType,
			truncateRunes("New issue: "+issue.Title, maxHeaderRunes), false, false)),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			mrkdwn(fmt.Sprintf("*Priority:*\n%s", issue.Priority)),
			mrkdwn(fmt.Sprintf("*Status:*\n%s", issue.Status)),
			mrkdwn(fmt.Sprintf("*Created by:*\n%s", escape(issue.CreatedBy))),
			mrkdwn(fmt.Sprintf("*Assigned to:*\n%s", escape(orDash(issue.AssignedTo)))),
		}, nil),
		slack.NewSectionBlock(mrkdwn(escape(truncateRunes(issue.Description, maxDescriptionRunes))), nil, nil),
	}

	if link := issueURL(baseURL, issue); link != "" {
		blocks = append(blocks, slack.NewContextBlock("",
			mrkdwn(fmt.Sprintf("<%s|Open issue>", link))))
	}

	if len(similar) == 0 {
		return blocks
	}

	shown := similar
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	lines := make([]string, 0, len(shown)+1)
	lines = append(lines, ":warning: *Possible duplicates*")
	for _, m := range shown {
		title := escape(m.Issue.Title)
		if link := issueURL(baseURL, m.Issue); link != "" {
			title = fmt.Sprintf("<%s|%s>", link, title)
		}
		lines = append(lines, fmt.Sprintf("• %s (%d%% similar, %s) - %s",
			title, m.Percent(), m.Issue.Status, m.Reason.Text()))
	}

	blocks = append(blocks,
		slack.NewDividerBlock(),
		slack.NewSectionBlock(mrkdwn(strings.Join(lines, "\n")), nil, nil),
	)

	if rest := len(similar) - len(shown); rest > 0 {
		blocks = append(blocks, slack.NewContextBlock("",
			mrkdwn(fmt.Sprintf("and %d more", rest))))
	}

	return blocks
}

func mrkdwn(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, text, false, false)
}

func issueURL(baseURL string, issue *model.Issue) string {
	if baseURL == "" || issue.ID.IsEmpty() {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/issues/" + issue.ID.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// escape replaces the three characters Slack treats as control sequences in mrkdwn
func escape(s string) string {
	return mrkdwnEscaper.Replace(s)
}

var mrkdwnEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// truncateRunes cuts s to at most n runes, marking the cut with an ellipsis
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
