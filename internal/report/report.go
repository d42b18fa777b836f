package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/slotwatch/internal/facility"
	"github.com/pfrederiksen/slotwatch/internal/target"
)

// TimestampLayout formats the scan time in messages.
const TimestampLayout = "2006-01-02 15:04:05"

// Message is the notification produced by one scan.
type Message struct {
	ScanID       string           `json:"scan_id,omitempty"`
	CheckedAt    time.Time        `json:"checked_at"`
	Date         target.Date      `json:"date"`
	AnyAvailable bool             `json:"any_available"`
	Entries      []facility.Entry `json:"facilities"`
	Text         string           `json:"text"`
}

// Format builds the message for a sealed scan result.
func Format(result *facility.ScanResult, date target.Date, checkedAt time.Time) Message {
	m := Message{
		CheckedAt:    checkedAt,
		Date:         date,
		AnyAvailable: result.AnyAvailable(),
		Entries:      result.Entries(),
	}
	m.Text = render(m)
	return m
}

func render(m Message) string {
	stamp := m.CheckedAt.Format(TimestampLayout)
	if !m.AnyAvailable {
		return fmt.Sprintf("🕒 Checked at: %s\n❌ No available slots found for any sports facilities.", stamp)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅✅✅🏃‍♂️ Sports Facilities Available for %s:\n", m.Date.Display())
	fmt.Fprintf(&b, "🕒 Checked at: %s\n\n", stamp)
	for _, e := range m.Entries {
		if e.Available {
			fmt.Fprintf(&b, "✅ %s: Available\n", e.Name)
		} else {
			fmt.Fprintf(&b, "❌ %s: Not available\n", e.Name)
		}
	}
	return b.String()
}

// AvailableNames lists the open facilities in scan order.
func (m Message) AvailableNames() []string {
	names := make([]string, 0, len(m.Entries))
	for _, e := range m.Entries {
		if e.Available {
			names = append(names, e.Name)
		}
	}
	return names
}
