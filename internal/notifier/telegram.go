package notifier

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dghubble/sling"
	"github.com/pfrederiksen/slotwatch/internal/report"
)

const telegramTimeout = 10 * time.Second

var telegramBaseURL = "https://api.telegram.org/"

type telegramMessage struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// TelegramNotifier sends the message text to a chat through the Bot API.
type TelegramNotifier struct {
	api    *sling.Sling
	chatID string
}

// NewTelegramNotifier creates a notifier for one chat.
func NewTelegramNotifier(botToken, chatID string) (*TelegramNotifier, error) {
	if botToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	if chatID == "" {
		return nil, fmt.Errorf("chat ID is required")
	}

	// Bot tokens contain a colon, so the token must be part of the base URL
	// rather than a relative path.
	api := sling.New().
		Client(&http.Client{Timeout: telegramTimeout}).
		Base(fmt.Sprintf("%sbot%s/", telegramBaseURL, botToken))
	return &TelegramNotifier{api: api, chatID: chatID}, nil
}

func (n *TelegramNotifier) Name() string { return "telegram" }

func (n *TelegramNotifier) Notify(ctx context.Context, m report.Message) error {
	if m.Text == "" {
		return &DeliveryError{Channel: n.Name(), Err: fmt.Errorf("message text is required")}
	}

	req, err := n.api.New().Post("sendMessage").BodyJSON(telegramMessage{
		ChatID:                n.chatID,
		Text:                  m.Text,
		DisableWebPagePreview: true,
	}).Request()
	if err != nil {
		return &DeliveryError{Channel: n.Name(), Err: fmt.Errorf("creating request: %w", err)}
	}

	var result telegramResponse
	resp, err := n.api.Do(req.WithContext(ctx), &result, &result)
	if resp == nil {
		return &DeliveryError{Channel: n.Name(), Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		if result.Description != "" {
			err = fmt.Errorf("%s", result.Description)
		}
		return &DeliveryError{Channel: n.Name(), StatusCode: resp.StatusCode, Err: err}
	}
	if err != nil {
		return &DeliveryError{Channel: n.Name(), Err: fmt.Errorf("parsing response: %w", err)}
	}
	if !result.OK {
		return &DeliveryError{Channel: n.Name(), Err: fmt.Errorf("telegram API error: %s", result.Description)}
	}
	return nil
}
