package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const slackPostMessageURL = "https://slack.com/api/chat.postMessage"

// SlackSender posts an operator copy of each notice to a Slack channel,
// through an incoming webhook or the chat.postMessage bot API. Recipient
// addresses are masked in the copy.
type SlackSender struct {
	webhookURL     string
	botToken       string
	defaultChannel string
	httpClient     *http.Client
}

// SlackMessage is the payload posted to Slack.
type SlackMessage struct {
	Channel     string  `json:"channel,omitempty"`
	Text        string  `json:"text"`
	Blocks      []Block `json:"blocks,omitempty"`
	UnfurlLinks bool    `json:"unfurl_links"`
	UnfurlMedia bool    `json:"unfurl_media"`
}

// Block is a Slack Block Kit block.
type Block struct {
	Type     string       `json:"type"`
	Text     *TextObject  `json:"text,omitempty"`
	Elements []TextObject `json:"elements,omitempty"`
}

// TextObject is the text of a block, "plain_text" or "mrkdwn".
type TextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type SlackOption func(*SlackSender)

// WithWebhook posts through an incoming webhook. It wins over a bot token.
func WithWebhook(url string) SlackOption {
	return func(s *SlackSender) { s.webhookURL = url }
}

// WithBotToken posts through chat.postMessage with an xoxb- token.
func WithBotToken(token string) SlackOption {
	return func(s *SlackSender) { s.botToken = token }
}

// WithDefaultChannel sets the channel; the bot API requires one.
func WithDefaultChannel(channel string) SlackOption {
	return func(s *SlackSender) { s.defaultChannel = channel }
}

func WithHTTPClient(client *http.Client) SlackOption {
	return func(s *SlackSender) { s.httpClient = client }
}

func NewSlackSender(opts ...SlackOption) *SlackSender {
	s := &SlackSender{httpClient: &http.Client{Timeout: 30 * time.Second}}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *SlackSender) Name() string {
	return "slack"
}

// Send posts the operator copy of msg.
func (s *SlackSender) Send(ctx context.Context, msg *Message) error {
	payload := FormatSlackMessage(msg, s.defaultChannel)

	switch {
	case s.webhookURL != "":
		return s.post(ctx, s.webhookURL, "", payload)
	case s.botToken != "":
		return s.post(ctx, slackPostMessageURL, s.botToken, payload)
	default:
		return errors.New("slack: no webhook URL or bot token configured")
	}
}

// FormatSlackMessage builds the channel payload for msg. The recipient is
// shown masked, see MaskAddress.
func FormatSlackMessage(msg *Message, channel string) *SlackMessage {
	to := MaskAddress(msg.To)

	return &SlackMessage{
		Channel: channel,
		Text:    fmt.Sprintf("[%s] %s", to, msg.Subject),
		Blocks: []Block{
			{
				Type: "section",
				Text: &TextObject{Type: "mrkdwn", Text: fmt.Sprintf("*%s*\nTo: %s", msg.Subject, to)},
			},
			{
				Type: "section",
				Text: &TextObject{Type: "mrkdwn", Text: ">" + strings.ReplaceAll(msg.Body, "\n", "\n>")},
			},
			{
				Type: "context",
				Elements: []TextObject{
					{Type: "mrkdwn", Text: msg.ID + " | " + msg.Timestamp.UTC().Format(time.RFC3339)},
				},
			},
		},
	}
}

// MaskAddress keeps the first character of the local part and the domain:
// "ana@example.org" becomes "a***@example.org".
func MaskAddress(addr string) string {
	local, domain, ok := strings.Cut(addr, "@")
	if !ok || local == "" {
		return "***"
	}

	return local[:1] + "***@" + domain
}

// post sends payload to url. A non-empty token selects the bot API, which
// answers 200 with {"ok":false} on failure.
func (s *SlackSender) post(ctx context.Context, url, token string, payload *SlackMessage) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("slack: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack: request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("slack: post: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack: status %d: %s", resp.StatusCode, strings.TrimSpace(string(text)))
	}

	if token == "" {
		return nil
	}

	var result struct {
		OK    bool   `json:"ok"`
		Error string `json:"error,omitempty"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("slack: decode response: %w", err)
	}

	if !result.OK {
		return fmt.Errorf("slack: api error: %s", result.Error)
	}

	return nil
}

// ValidateWebhookURL checks that url is a Slack incoming webhook.
func ValidateWebhookURL(url string) error {
	if !strings.HasPrefix(url, "https://hooks.slack.com/services/") {
		return fmt.Errorf("slack webhook %q: must start with https://hooks.slack.com/services/", url)
	}

	return nil
}

// ValidateBotToken checks that token looks like a bot token.
func ValidateBotToken(token string) error {
	if !strings.HasPrefix(token, "xoxb-") {
		return errors.New("slack bot token: must start with xoxb-")
	}

	return nil
}
