package notify

import (
	"context"
	"encoding/json"
	"errors"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/releasewatch/pkg/domain/model"
)

const defaultTelegramEndpoint = "https://api.telegram.org"

// Telegram sends alerts through the Bot API sendMessage method
type Telegram struct {
	token      string
	chatID     string
	endpoint   string
	httpClient *http.Client
}

// TelegramOption is a functional option for the Telegram channel
type TelegramOption func(*Telegram)

// WithTelegramEndpoint overrides the Bot API root URL
func WithTelegramEndpoint(endpoint string) TelegramOption {
	return func(t *Telegram) {
		t.endpoint = strings.TrimSuffix(endpoint, "/")
	}
}

// NewTelegram creates a Telegram bot channel posting to chatID
func NewTelegram(token, chatID string, opts ...TelegramOption) *Telegram {
	t := &Telegram{
		token:      token,
		chatID:     chatID,
		endpoint:   defaultTelegramEndpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Telegram) Name() string { return "telegram" }

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (t *Telegram) Send(ctx context.Context, alert *model.Alert) error {
	form := url.Values{}
	form.Set("chat_id", t.chatID)
	form.Set("text", html.EscapeString(alert.Message()))
	form.Set("parse_mode", "HTML")
	form.Set("disable_web_page_preview", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		t.endpoint+"/bot"+t.token+"/sendMessage", strings.NewReader(form.Encode()))
	if err != nil {
		return goerr.Wrap(err, "failed to build Telegram request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		// the request URL embeds the bot token; keep it out of the error
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return goerr.Wrap(err, "failed to send Telegram message")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return goerr.Wrap(err, "failed to read Telegram response")
	}

	var result telegramResponse
	_ = json.Unmarshal(body, &result)

	if resp.StatusCode != http.StatusOK || !result.OK {
		return goerr.New("Telegram rejected message",
			goerr.V("status", resp.StatusCode),
			goerr.V("description", result.Description))
	}
	return nil
}
