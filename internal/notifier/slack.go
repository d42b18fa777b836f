package notifier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dghubble/sling"
	"github.com/pfrederiksen/slotwatch/internal/report"
)

const (
	SlackUsername = "Sports Facility Bot"
	SlackIcon     = ":sports_medal:"
	slackTimeout  = 10 * time.Second
)

type slackPayload struct {
	Text      string `json:"text"`
	Username  string `json:"username"`
	IconEmoji string `json:"icon_emoji"`
}

// SlackNotifier posts to a Slack incoming webhook.
type SlackNotifier struct {
	api *sling.Sling
}

// NewSlackNotifier creates a notifier for webhookURL.
func NewSlackNotifier(webhookURL string) (*SlackNotifier, error) {
	if webhookURL == "" {
		return nil, fmt.Errorf("webhook URL is required")
	}
	u, err := url.Parse(webhookURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid webhook URL %q", webhookURL)
	}

	return &SlackNotifier{
		api: sling.New().Client(&http.Client{Timeout: slackTimeout}).Post(webhookURL),
	}, nil
}

func (n *SlackNotifier) Name() string { return "slack" }

// Notify posts the message text. Only HTTP 200 counts as delivered.
func (n *SlackNotifier) Notify(ctx context.Context, m report.Message) error {
	req, err := n.api.New().BodyJSON(slackPayload{
		Text:      m.Text,
		Username:  SlackUsername,
		IconEmoji: SlackIcon,
	}).Request()
	if err != nil {
		return &DeliveryError{Channel: n.Name(), Err: fmt.Errorf("creating request: %w", err)}
	}

	resp, err := n.api.Do(req.WithContext(ctx), nil, nil)
	if err != nil {
		return &DeliveryError{Channel: n.Name(), Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return &DeliveryError{Channel: n.Name(), StatusCode: resp.StatusCode}
	}
	return nil
}
