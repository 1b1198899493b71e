package slack

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/issueboard/pkg/domain/interfaces"
	"github.com/secmon-lab/issueboard/pkg/domain/model"
	"github.com/secmon-lab/issueboard/pkg/utils/logging"
	"github.com/slack-go/slack"
)

// Notifier posts a message to a Slack channel for every new issue
type Notifier struct {
	api       *slack.Client
	channelID string
	baseURL   string
	limit     int
}

var _ interfaces.IssueNotifier = &Notifier{}

type config struct {
	baseURL string
	apiURL  string
	limit   int
}

// Option is a functional option for Notifier configuration
type Option func(*config)

// WithBaseURL sets the URL of the web UI used to link issues from messages
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// WithDisplayLimit caps the number of similar issues listed in a message
func WithDisplayLimit(limit int) Option {
	return func(c *config) {
		c.limit = limit
	}
}

// WithAPIURL points the client to another Slack API endpoint. The URL must
// end with a slash.
func WithAPIURL(url string) Option {
	return func(c *config) {
		c.apiURL = url
	}
}

// New creates a Notifier with the provided bot token and channel
func New(token, channelID string, opts ...Option) (*Notifier, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel is required")
	}

	cfg := &config{limit: model.DefaultDetectionPolicy().DisplayLimit}
	for _, opt := range opts {
		opt(cfg)
	}

	var apiOpts []slack.Option
	if cfg.apiURL != "" {
		apiOpts = append(apiOpts, slack.OptionAPIURL(cfg.apiURL))
	}

	return &Notifier{
		api:       slack.New(token, apiOpts...),
		channelID: channelID,
		baseURL:   cfg.baseURL,
		limit:     cfg.limit,
	}, nil
}

// NotifyIssueCreated posts the issue and the similar issues found when it was created
func (n *Notifier) NotifyIssueCreated(ctx context.Context, issue *model.Issue, similar []*model.SimilarityMatch) error {
	blocks := BuildIssueBlocks(issue, similar, n.baseURL, n.limit)
	fallback := fmt.Sprintf("New issue: %s", issue.Title)
	if len(similar) > 0 {
		fallback = fmt.Sprintf("New issue: %s (%d similar)", issue.Title, len(similar))
	}

	_, ts, err := n.api.PostMessageContext(ctx, n.channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(fallback, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post Slack message",
			goerr.V("channel", n.channelID),
			goerr.V("issue_id", issue.ID))
	}

	logging.From(ctx).Debug("issue announced on Slack", "issue_id", issue.ID, "channel", n.channelID, "ts", ts)
	return nil
}
