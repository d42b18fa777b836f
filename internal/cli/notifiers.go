package cli

import (
	"io"

	"github.com/pfrederiksen/slotwatch/internal/config"
	"github.com/pfrederiksen/slotwatch/internal/logger"
	"github.com/pfrederiksen/slotwatch/internal/notifier"
)

// buildNotifiers returns a notifier for every channel with credentials.
// A channel that cannot be set up is logged and skipped. The returned func
// releases broker connections.
func buildNotifiers(cfg *config.Config, opts Options, out io.Writer) ([]notifier.Notifier, func()) {
	n := cfg.Notify
	webhook := n.SlackWebhookURL
	if opts.WebhookURL != "" {
		webhook = opts.WebhookURL
	}

	var (
		notifiers []notifier.Notifier
		closers   []func() error
	)
	add := func(channel string, build func() (notifier.Notifier, error)) {
		if opts.DryRun {
			notifiers = append(notifiers, notifier.NewDryRunNotifier(channel, out))
			return
		}
		nt, err := build()
		if err != nil {
			logger.Warn("notification channel disabled", logger.Fields{"channel": channel, "error": err.Error()})
			return
		}
		notifiers = append(notifiers, nt)
	}

	if webhook != "" {
		add("slack", func() (notifier.Notifier, error) {
			return notifier.NewSlackNotifier(webhook)
		})
	} else {
		logger.Debug("no Slack webhook configured", nil)
	}
	if n.Telegram.BotToken != "" && n.Telegram.ChatID != "" {
		add("telegram", func() (notifier.Notifier, error) {
			return notifier.NewTelegramNotifier(n.Telegram.BotToken, n.Telegram.ChatID)
		})
	}
	if n.Twitter.Complete() {
		add("twitter", func() (notifier.Notifier, error) {
			return notifier.NewTwitterNotifier(n.Twitter)
		})
	}
	if n.MQTT.Broker != "" {
		add("mqtt", func() (notifier.Notifier, error) {
			m, err := notifier.NewMQTTNotifier(n.MQTT.Broker, n.MQTT.Topic)
			if err != nil {
				return nil, err
			}
			closers = append(closers, m.Close)
			return m, nil
		})
	}

	return notifiers, func() {
		for _, c := range closers {
			c() // nolint:errcheck
		}
	}
}
