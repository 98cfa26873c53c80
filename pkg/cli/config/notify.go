package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/releasewatch/pkg/domain/interfaces"
	"github.com/m-mizutani/releasewatch/pkg/infra/notify"
)

// Notify holds alert channel configuration
type Notify struct {
	SlackEnabled    bool
	SlackWebhookURL string `masq:"secret"`

	TelegramEnabled bool
	TelegramToken   string `masq:"secret"`
	TelegramChatID  string
}

// Flags returns CLI flags for alert channels
func (c *Notify) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "slack-enabled",
			Usage:       "Send alerts to a Slack incoming webhook",
			Destination: &c.SlackEnabled,
			Sources:     cli.EnvVars("RELEASEWATCH_SLACK_ENABLED", "slack_enabled"),
		},
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL",
			Destination: &c.SlackWebhookURL,
			Sources:     cli.EnvVars("RELEASEWATCH_SLACK_WEBHOOK_URL", "slack_webhook"),
		},
		&cli.BoolFlag{
			Name:        "telegram-enabled",
			Usage:       "Send alerts through a Telegram bot",
			Destination: &c.TelegramEnabled,
			Sources:     cli.EnvVars("RELEASEWATCH_TELEGRAM_ENABLED", "telegram_enabled"),
		},
		&cli.StringFlag{
			Name:        "telegram-token",
			Usage:       "Telegram bot token",
			Destination: &c.TelegramToken,
			Sources:     cli.EnvVars("RELEASEWATCH_TELEGRAM_TOKEN", "telegram_key"),
		},
		&cli.StringFlag{
			Name:        "telegram-chat-id",
			Usage:       "Telegram chat to post alerts to",
			Destination: &c.TelegramChatID,
			Sources:     cli.EnvVars("RELEASEWATCH_TELEGRAM_CHAT_ID", "telegram_chat_id"),
		},
	}
}

// Validate checks every enabled channel has its credentials
func (c *Notify) Validate() error {
	if c.SlackEnabled && c.SlackWebhookURL == "" {
		return goerr.New("slack-webhook-url is required with slack-enabled")
	}
	if c.TelegramEnabled && (c.TelegramToken == "" || c.TelegramChatID == "") {
		return goerr.New("telegram-token and telegram-chat-id are required with telegram-enabled")
	}
	return nil
}

// NewNotifier returns a notifier over the enabled channels
func (c *Notify) NewNotifier() *notify.Multi {
	var channels []interfaces.Channel
	if c.SlackEnabled {
		channels = append(channels, notify.NewSlack(c.SlackWebhookURL))
	}
	if c.TelegramEnabled {
		channels = append(channels, notify.NewTelegram(c.TelegramToken, c.TelegramChatID))
	}
	return notify.New(channels...)
}
