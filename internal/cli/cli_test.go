package cli

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pfrederiksen/slotwatch/internal/config"
	"github.com/pfrederiksen/slotwatch/internal/notifier"
)

func TestRootCmd_Flags(t *testing.T) {
	cmd := NewRootCmd()
	for _, name := range []string{"config", "webhook-url", "headless", "weekday", "format", "dry-run", "verbose", "exit-status", "chrome-path"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("flag --%s not defined", name)
		}
	}
}

func TestRootCmd_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown format", []string{"--format", "xml"}, "unknown format"},
		{"bad weekday", []string{"--weekday", "friday"}, "invalid weekday"},
		{"missing config file", []string{"--config", filepath.Join("testdata", "absent.yaml")}, "error reading config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewRootCmd()
			cmd.SetArgs(tt.args)
			cmd.SetOut(io.Discard)
			cmd.SetErr(io.Discard)

			err := cmd.Execute()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Execute() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestBuildNotifiers(t *testing.T) {
	cfg := config.Default()
	cfg.Notify.SlackWebhookURL = "https://hooks.slack.com/services/T/B/X"
	cfg.Notify.Telegram = config.TelegramConfig{BotToken: "1:a", ChatID: "2"}
	cfg.Notify.Twitter = notifier.TwitterCredentials{APIKey: "k", APISecret: "s", AccessToken: "t", AccessSecret: "ts"}

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{"live channels", Options{}, []string{"slack", "telegram", "twitter"}},
		{"dry run", Options{DryRun: true}, []string{"slack (dry run)", "telegram (dry run)", "twitter (dry run)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, closeAll := buildNotifiers(cfg, tt.opts, &bytes.Buffer{})
			defer closeAll()

			names := make([]string, 0, len(got))
			for _, n := range got {
				names = append(names, n.Name())
			}
			if strings.Join(names, ",") != strings.Join(tt.want, ",") {
				t.Errorf("notifiers = %v, want %v", names, tt.want)
			}
		})
	}
}

func TestBuildNotifiers_FlagWebhookAndBadURL(t *testing.T) {
	cfg := config.Default()

	got, _ := buildNotifiers(cfg, Options{WebhookURL: "https://hooks.slack.com/services/T/B/Y"}, io.Discard)
	if len(got) != 1 || got[0].Name() != "slack" {
		t.Errorf("flag webhook: notifiers = %v", got)
	}

	got, _ = buildNotifiers(cfg, Options{WebhookURL: "not a url"}, io.Discard)
	if len(got) != 0 {
		t.Errorf("invalid webhook should disable slack, got %d notifiers", len(got))
	}

	got, _ = buildNotifiers(cfg, Options{}, io.Discard)
	if len(got) != 0 {
		t.Errorf("no credentials: got %d notifiers", len(got))
	}
}
