package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/issueboard/pkg/domain/interfaces"
	"github.com/secmon-lab/issueboard/pkg/domain/model"
	"github.com/secmon-lab/issueboard/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for issue creation notifications
type Slack struct {
	botToken  string
	channelID string
	baseURL   string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token used to announce new issues",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("ISSUEBOARD_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID new issues are announced to",
			Category:    "Slack",
			Destination: &x.channelID,
			Sources:     cli.EnvVars("ISSUEBOARD_SLACK_CHANNEL_ID"),
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Base URL of the web UI, used for links in messages (e.g., https://your-domain.com)",
			Destination: &x.baseURL,
			Sources:     cli.EnvVars("ISSUEBOARD_BASE_URL"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel", x.channelID),
		slog.String("base_url", x.baseURL),
	)
}

// IsConfigured checks if both bot token and channel are set
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" && x.channelID != ""
}

// Configure returns a notifier, or nil when Slack is not configured. Setting
// only one of token and channel is an error.
func (x *Slack) Configure(policy model.DetectionPolicy) (interfaces.IssueNotifier, error) {
	if x.botToken == "" && x.channelID == "" {
		return nil, nil
	}
	if !x.IsConfigured() {
		return nil, goerr.Wrap(ErrMissingValue, "--slack-bot-token and --slack-channel-id must be set together")
	}

	notifier, err := slack.New(x.botToken, x.channelID,
		slack.WithBaseURL(x.baseURL),
		slack.WithDisplayLimit(policy.DisplayLimit),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize Slack notifier")
	}
	return notifier, nil
}
