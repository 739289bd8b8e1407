package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/younsl/tagsched/internal/models"
)

const (
	// DefaultTimeout bounds each webhook POST
	DefaultTimeout = 10 * time.Second

	// DefaultRetryMax is how many times a 5xx or 429 response is retried
	DefaultRetryMax = 2

	// DefaultTelegramAPI is the Bot API base URL
	DefaultTelegramAPI = "https://api.telegram.org"
)

// Options configures a Client. Zero values take defaults.
type Options struct {
	Timeout     time.Duration
	RetryMax    int
	RetryWait   time.Duration
	TelegramAPI string
	Logger      zerolog.Logger
}

// Client posts change notifications to the webhooks configured on an account
type Client struct {
	http        *retryablehttp.Client
	telegramAPI string
	log         zerolog.Logger
}

// NewClient creates a Client
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RetryMax < 0 {
		opts.RetryMax = 0
	}
	if opts.TelegramAPI == "" {
		opts.TelegramAPI = DefaultTelegramAPI
	}

	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = opts.Timeout
	client.RetryMax = opts.RetryMax
	if opts.RetryWait > 0 {
		client.RetryWaitMin = opts.RetryWait
		client.RetryWaitMax = opts.RetryWait
	}
	client.Logger = leveledLogger{log: opts.Logger}

	return &Client{
		http:        client,
		telegramAPI: opts.TelegramAPI,
		log:         opts.Logger,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// Notify sends the account's changes to Teams, Slack and Telegram. Empty
// destinations are skipped and an empty change list sends nothing. Every
// destination is attempted; failures are combined into the returned error.
func (c *Client) Notify(ctx context.Context, account models.Account, changes []models.Change, now time.Time) error {
	if len(changes) == 0 {
		return nil
	}

	var result *multierror.Error

	if account.TeamsWebhook != "" {
		body := map[string]string{"text": BuildText(account, changes, now)}
		if err := c.postJSON(ctx, account.TeamsWebhook, body); err != nil {
			result = multierror.Append(result, fmt.Errorf("teams: %w", err))
		}
	}

	if account.SlackWebhook != "" {
		if err := c.postJSON(ctx, account.SlackWebhook, BuildSlack(account, changes, now)); err != nil {
			result = multierror.Append(result, fmt.Errorf("slack: %w", err))
		}
	}

	if account.TelegramBotToken != "" && account.TelegramChatID != "" {
		url := fmt.Sprintf("%s/bot%s/sendMessage", c.telegramAPI, account.TelegramBotToken)
		msg := telegramMessage{
			ChatID:    account.TelegramChatID,
			Text:      BuildTelegram(account, changes, now),
			ParseMode: "HTML",
		}
		if err := c.postJSON(ctx, url, msg); err != nil {
			// the URL carries the bot token
			result = multierror.Append(result, fmt.Errorf("telegram: chat %s: %w", account.TelegramChatID, redact(err, account.TelegramBotToken)))
		}
	}

	return result.ErrorOrNil()
}

func (c *Client) postJSON(ctx context.Context, url string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error encoding payload: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, data)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	c.log.Debug().Int("status", resp.StatusCode).Msg("notification delivered")
	return nil
}
