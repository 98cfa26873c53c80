package notify

import (
	"context"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/m-mizutani/releasewatch/pkg/domain/model"
)

// Slack posts alerts to an incoming webhook
type Slack struct {
	webhookURL string
	httpClient *http.Client
}

// NewSlack creates a Slack incoming webhook channel
func NewSlack(webhookURL string) *Slack {
	return &Slack{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *Slack) Name() string { return "slack" }

func (s *Slack) Send(ctx context.Context, alert *model.Alert) error {
	color := "good"
	if alert.Kind == model.AlertDowngrade {
		color = "warning"
	}

	msg := &slack.WebhookMessage{
		Text: alert.Message(),
		Attachments: []slack.Attachment{
			{
				Color:     color,
				Title:     alert.Title(),
				TitleLink: alert.URL,
				Fields: []slack.AttachmentField{
					{Title: "Old version", Value: alert.OldVersion, Short: true},
					{Title: "New version", Value: alert.NewVersion, Short: true},
				},
			},
		},
	}

	if err := slack.PostWebhookCustomHTTPContext(ctx, s.webhookURL, s.httpClient, msg); err != nil {
		return goerr.Wrap(err, "failed to post Slack webhook")
	}
	return nil
}
