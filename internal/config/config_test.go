package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/slotwatch/internal/facility"
	"github.com/pfrederiksen/slotwatch/internal/scraper"
	"github.com/pfrederiksen/slotwatch/internal/target"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SLACK_WEBHOOK_URL", "GITHUB_ACTIONS", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
		"MQTT_BROKER", "CHROME_PATH", "LOG_LEVEL", "TWITTER_API_KEY", "TWITTER_API_SECRET",
		"TWITTER_ACCESS_TOKEN", "TWITTER_ACCESS_SECRET",
	} {
		t.Setenv(k, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}

	roster, err := cfg.Roster()
	if err != nil {
		t.Fatalf("Roster() error = %v", err)
	}
	want := facility.Defaults()
	if len(roster) != len(want) {
		t.Fatalf("Roster() has %d facilities, want %d", len(roster), len(want))
	}
	for i := range want {
		if roster[i] != want[i] {
			t.Errorf("facility %d = %+v, want %+v", i, roster[i], want[i])
		}
	}
	if cfg.Frame != scraper.FrameName || cfg.Site.URL != scraper.SiteURL {
		t.Errorf("site = %q frame = %q", cfg.Site.URL, cfg.Frame)
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join("testdata", "custom.yaml"), true)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Site.Timing.Settle != 4*time.Second || cfg.Site.Timing.PollInterval != 100*time.Millisecond {
		t.Errorf("timing = %+v", cfg.Site.Timing)
	}
	if cfg.Site.Timing.ReloadSettle != scraper.DefaultTiming().ReloadSettle {
		t.Errorf("unset reload_settle = %v, want default", cfg.Site.Timing.ReloadSettle)
	}
	if cfg.Site.Selectors != scraper.DefaultSelectors() {
		t.Error("selectors changed although the file does not set them")
	}
	if len(cfg.Site.SecondaryMarkers) != 3 {
		t.Errorf("secondary markers = %v", cfg.Site.SecondaryMarkers)
	}
	if !cfg.Headless {
		t.Error("headless = false, want true")
	}
	if cfg.Notify.Telegram.ChatID != "-100123" || cfg.Notify.MQTT.Broker != "tcp://broker.local:1883" {
		t.Errorf("notify = %+v", cfg.Notify)
	}
	if cfg.Notify.MQTT.Topic != "slotwatch/scan" {
		t.Errorf("mqtt topic = %q, want default", cfg.Notify.MQTT.Topic)
	}

	roster, err := cfg.Roster()
	if err != nil {
		t.Fatalf("Roster() error = %v", err)
	}
	want := []facility.Facility{
		facility.NewPrimary("芝スポーツセンター", -1, target.Sunday),
		facility.NewSecondary("戸塚スポーツセンター"),
		facility.NewSecondary("東スポーツセンター"),
	}
	if len(roster) != len(want) {
		t.Fatalf("Roster() = %+v", roster)
	}
	for i := range want {
		if roster[i] != want[i] {
			t.Errorf("facility %d = %+v, want %+v", i, roster[i], want[i])
		}
	}
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name      string
		file      string
		mustExist bool
		wantErr   string
	}{
		{"primary not first", "bad_roster.yaml", true, "first facility must be the primary"},
		{"zero duration", "bad_timing.yaml", true, "reload_settle must be positive"},
		{"day link without date", "bad_day_link.yaml", true, "day_link"},
		{"unknown log level", "bad_log_level.yaml", true, "unknown log level"},
		{"malformed yaml", "malformed.yaml", true, "error parsing config file"},
		{"missing required file", "nope.yaml", true, "error reading config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(filepath.Join("testdata", tt.file), tt.mustExist)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingOptionalFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), DefaultPath), false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Facilities) != len(facility.Defaults()) {
		t.Errorf("got %d facilities, want defaults", len(cfg.Facilities))
	}
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.com/services/T/B/X")
	t.Setenv("GITHUB_ACTIONS", "true")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-42")
	t.Setenv("TWITTER_API_KEY", "k")
	t.Setenv("TWITTER_API_SECRET", "s")
	t.Setenv("TWITTER_ACCESS_TOKEN", "t")
	t.Setenv("TWITTER_ACCESS_SECRET", "ts")
	t.Setenv("CHROME_PATH", "/usr/bin/chromium")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join("testdata", "custom.yaml"), true)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Notify.SlackWebhookURL != "https://hooks.slack.com/services/T/B/X" {
		t.Errorf("slack webhook = %q", cfg.Notify.SlackWebhookURL)
	}
	if cfg.Notify.Telegram.BotToken != "123:abc" || cfg.Notify.Telegram.ChatID != "-42" {
		t.Errorf("telegram = %+v", cfg.Notify.Telegram)
	}
	if !cfg.Notify.Twitter.Complete() {
		t.Errorf("twitter credentials incomplete: %+v", cfg.Notify.Twitter)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q, want debug", cfg.LogLevel)
	}
	if !cfg.Headless || cfg.ChromePath != "/usr/bin/chromium" {
		t.Errorf("headless = %v chrome = %q", cfg.Headless, cfg.ChromePath)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("SLACK_WEBHOOK_URL") // nolint:errcheck // godotenv does not override set variables

	dir := t.TempDir()
	env := "SLACK_WEBHOOK_URL=https://hooks.slack.com/services/from/dot/env\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(filepath.Join(dir, DefaultPath), false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Notify.SlackWebhookURL != "https://hooks.slack.com/services/from/dot/env" {
		t.Errorf("slack webhook = %q, want value from .env", cfg.Notify.SlackWebhookURL)
	}
}

func TestRoster_UnknownVariant(t *testing.T) {
	cfg := Default()
	cfg.Facilities[1].Variant = "tertiary"

	_, err := cfg.Roster()
	if err == nil || !strings.Contains(err.Error(), "unknown variant") {
		t.Errorf("Roster() error = %v", err)
	}
}

func TestRoster_DefaultWeekday(t *testing.T) {
	cfg := Default()
	cfg.Facilities = []FacilityConfig{{Name: "芝スポーツセンター"}}

	roster, err := cfg.Roster()
	if err != nil {
		t.Fatalf("Roster() error = %v", err)
	}
	if roster[0].Variant != facility.Primary || roster[0].Weekday != target.Saturday {
		t.Errorf("roster[0] = %+v, want Saturday primary", roster[0])
	}
}

func TestValidate_EmptyRoster(t *testing.T) {
	cfg := Default()
	cfg.Facilities = nil
	if err := cfg.Validate(); !errors.Is(err, facility.ErrEmptyRoster) {
		t.Errorf("Validate() error = %v, want ErrEmptyRoster", err)
	}
}
