package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pfrederiksen/slotwatch/internal/facility"
	"github.com/pfrederiksen/slotwatch/internal/logger"
	"github.com/pfrederiksen/slotwatch/internal/notifier"
	"github.com/pfrederiksen/slotwatch/internal/scraper"
	"github.com/pfrederiksen/slotwatch/internal/target"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given, if it exists.
const DefaultPath = "slotwatch.yaml"

// FacilityConfig is one roster entry. Variant defaults to primary for the
// first entry and secondary for the rest; Weekday defaults to Saturday.
type FacilityConfig struct {
	Name    string              `yaml:"name"`
	Variant facility.Variant    `yaml:"variant,omitempty"`
	Ordinal int                 `yaml:"ordinal,omitempty"`
	Weekday *target.WeekdaySpec `yaml:"weekday,omitempty"`
}

type TelegramConfig struct {
	BotToken string `yaml:"-"` // Loaded from environment
	ChatID   string `yaml:"chat_id"`
}

type MQTTConfig struct {
	Broker string `yaml:"broker"`
	Topic  string `yaml:"topic"`
}

type NotifyConfig struct {
	SlackWebhookURL string                      `yaml:"slack_webhook_url"`
	Telegram        TelegramConfig              `yaml:"telegram"`
	Twitter         notifier.TwitterCredentials `yaml:"-"` // Loaded from environment
	MQTT            MQTTConfig                  `yaml:"mqtt"`
}

type Config struct {
	LogLevel   string           `yaml:"log_level"`
	Site       scraper.Config   `yaml:"site"`
	Frame      string           `yaml:"frame"`
	Headless   bool             `yaml:"headless"`
	ChromePath string           `yaml:"chrome_path"`
	Facilities []FacilityConfig `yaml:"facilities"`
	Notify     NotifyConfig     `yaml:"notify"`
}

// Default returns the settings for the live site and the standard roster.
func Default() *Config {
	roster := facility.Defaults()
	facilities := make([]FacilityConfig, 0, len(roster))
	for _, f := range roster {
		fc := FacilityConfig{Name: f.Name, Variant: f.Variant, Ordinal: f.Ordinal}
		if f.Variant == facility.Primary {
			wd := f.Weekday
			fc.Weekday = &wd
		}
		facilities = append(facilities, fc)
	}

	return &Config{
		LogLevel:   string(logger.LevelInfo),
		Site:       scraper.DefaultConfig(),
		Frame:      scraper.FrameName,
		Facilities: facilities,
		Notify: NotifyConfig{
			MQTT: MQTTConfig{Topic: notifier.DefaultMQTTTopic},
		},
	}
}

// Load layers the YAML file at path and the environment over Default.
// A missing file is an error only when mustExist is set.
func Load(path string, mustExist bool) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !mustExist:
	default:
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyEnv loads secrets and environment overrides
func (c *Config) applyEnv() {
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		c.Notify.SlackWebhookURL = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Notify.Telegram.ChatID = v
	}
	if v := os.Getenv("MQTT_BROKER"); v != "" {
		c.Notify.MQTT.Broker = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("CHROME_PATH"); v != "" {
		c.ChromePath = v
	}
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		c.Headless = true
	}

	c.Notify.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	c.Notify.Twitter = notifier.TwitterCredentials{
		APIKey:       os.Getenv("TWITTER_API_KEY"),
		APISecret:    os.Getenv("TWITTER_API_SECRET"),
		AccessToken:  os.Getenv("TWITTER_ACCESS_TOKEN"),
		AccessSecret: os.Getenv("TWITTER_ACCESS_SECRET"),
	}
}

// Roster builds the facility list in configured order.
func (c *Config) Roster() ([]facility.Facility, error) {
	roster := make([]facility.Facility, 0, len(c.Facilities))
	for i, fc := range c.Facilities {
		variant := fc.Variant
		if variant == "" {
			variant = facility.Secondary
			if i == 0 {
				variant = facility.Primary
			}
		}

		switch variant {
		case facility.Primary:
			weekday := target.Saturday
			if fc.Weekday != nil {
				weekday = *fc.Weekday
			}
			roster = append(roster, facility.NewPrimary(fc.Name, fc.Ordinal, weekday))
		case facility.Secondary:
			roster = append(roster, facility.NewSecondary(fc.Name))
		default:
			return nil, fmt.Errorf("facility %q has unknown variant %q", fc.Name, fc.Variant)
		}
	}

	if err := facility.Validate(roster); err != nil {
		return nil, err
	}
	return roster, nil
}

func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	u, err := url.Parse(c.Site.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("site url %q is not an absolute URL", c.Site.URL)
	}

	sel := c.Site.Selectors
	selectors := map[string]string{
		"category_button":   sel.CategoryButton,
		"category_checkbox": sel.CategoryCheckbox,
		"search_button":     sel.SearchButton,
		"reserve_button":    sel.ReserveButton,
		"calendar_title":    sel.CalendarTitle,
		"next_month":        sel.NextMonth,
		"day_link":          sel.DayLink,
		"facility_select":   sel.FacilitySelect,
		"available_slot":    sel.AvailableSlot,
	}
	for name, v := range selectors {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("selector %s is required", name)
		}
	}
	if strings.Count(sel.DayLink, "%s") != 1 {
		return fmt.Errorf("selector day_link must contain exactly one %%s")
	}

	tm := c.Site.Timing
	durations := map[string]int64{
		"settle":          int64(tm.Settle),
		"reload_settle":   int64(tm.ReloadSettle),
		"element_timeout": int64(tm.ElementTimeout),
		"poll_interval":   int64(tm.PollInterval),
	}
	for name, d := range durations {
		if d <= 0 {
			return fmt.Errorf("timing %s must be positive", name)
		}
	}
	if tm.PreSearch < 0 {
		return fmt.Errorf("timing pre_search must not be negative")
	}

	if len(c.Site.PrimaryMarkers) == 0 || len(c.Site.SecondaryMarkers) == 0 {
		return fmt.Errorf("primary and secondary row markers are required")
	}

	if _, err := c.Roster(); err != nil {
		return fmt.Errorf("facilities: %w", err)
	}
	return nil
}
