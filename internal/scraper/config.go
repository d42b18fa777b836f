package scraper

import (
	"time"

	"github.com/pfrederiksen/slotwatch/internal/browser"
)

const (
	// SiteURL is the entry page of the reservation system.
	SiteURL = "https://www.pa-reserve.jp/eap-rj/rsv_rj/core_i/init.asp?KLCD=112039&SBT=1&Target=_Top&LCD="
	// FrameName is the frame that hosts every page of the system.
	FrameName = "MainFrame"
)

// Selectors locate the site controls a scan operates.
// DayLink is a format string taking the date in YYYYMMDD form.
type Selectors struct {
	CategoryButton   string `yaml:"category_button"`
	CategoryCheckbox string `yaml:"category_checkbox"`
	SearchButton     string `yaml:"search_button"`
	ReserveButton    string `yaml:"reserve_button"`
	CalendarTitle    string `yaml:"calendar_title"`
	NextMonth        string `yaml:"next_month"`
	DayLink          string `yaml:"day_link"`
	FacilitySelect   string `yaml:"facility_select"`
	AvailableSlot    string `yaml:"available_slot"`
}

// Timing holds the waits between scan steps.
type Timing struct {
	// Settle bounds the wait after a click that re-renders the calendar.
	Settle time.Duration `yaml:"settle"`
	// ReloadSettle is the fixed wait after switching the facility dropdown.
	ReloadSettle time.Duration `yaml:"reload_settle"`
	// PreSearch is the pause between ticking the category and searching.
	PreSearch time.Duration `yaml:"pre_search"`
	// ElementTimeout bounds the wait for a control to appear.
	ElementTimeout time.Duration `yaml:"element_timeout"`
	// PollInterval is how often readiness conditions are re-checked.
	PollInterval time.Duration `yaml:"poll_interval"`
}

// Config describes the site a Scraper drives.
type Config struct {
	URL              string    `yaml:"url"`
	Selectors        Selectors `yaml:"selectors"`
	Timing           Timing    `yaml:"timing"`
	PrimaryMarkers   []string  `yaml:"primary_markers"`
	SecondaryMarkers []string  `yaml:"secondary_markers"`
}

// DefaultSelectors returns the selectors of the live site.
func DefaultSelectors() Selectors {
	return Selectors{
		CategoryButton:   "input[alt='分類']",
		CategoryCheckbox: "input[id='00003']",
		SearchButton:     "input[alt='所在地を指定せずに検索']",
		ReserveButton:    "input[alt='予約画面へ']",
		CalendarTitle:    "#hdYM",
		NextMonth:        "th.clsCalTitle1 img[alt='翌月表示']",
		DayLink:          "a[href*='set_data(%s)']",
		FacilitySelect:   "select[name=lst_kaikan]",
		AvailableSlot:    "img[alt='予約可能']",
	}
}

// DefaultTiming returns waits tuned for the live site.
func DefaultTiming() Timing {
	return Timing{
		Settle:         3 * time.Second,
		ReloadSettle:   5 * time.Second,
		PreSearch:      time.Second,
		ElementTimeout: browser.DefaultTimeout,
		PollInterval:   250 * time.Millisecond,
	}
}

// DefaultConfig returns the configuration for the live site.
func DefaultConfig() Config {
	return Config{
		URL:              SiteURL,
		Selectors:        DefaultSelectors(),
		Timing:           DefaultTiming(),
		PrimaryMarkers:   []string{"体育館"},
		SecondaryMarkers: []string{"体育館", "アリーナ"},
	}
}
