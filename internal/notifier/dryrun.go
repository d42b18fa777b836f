package notifier

import (
	"context"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/pfrederiksen/slotwatch/internal/report"
)

// DryRunNotifier prints what a channel would have been sent without sending it
type DryRunNotifier struct {
	channel string
	out     io.Writer
}

// NewDryRunNotifier stands in for channel, printing to out (stdout when nil).
func NewDryRunNotifier(channel string, out io.Writer) *DryRunNotifier {
	if out == nil {
		out = os.Stdout
	}
	return &DryRunNotifier{channel: channel, out: out}
}

func (n *DryRunNotifier) Name() string { return n.channel + " (dry run)" }

func (n *DryRunNotifier) Notify(ctx context.Context, m report.Message) error {
	text := m.Text
	if n.channel == "twitter" {
		if !m.AnyAvailable {
			fmt.Fprintf(n.out, "--- %s: nothing to post ---\n\n", n.channel)
			return nil
		}
		text = formatTweet(m)
	}
	fmt.Fprintf(n.out, "--- %s ---\n", n.channel)
	fmt.Fprintln(n.out, text)
	fmt.Fprintf(n.out, "\n(Length: %d characters)\n\n", utf8.RuneCountInString(text))
	return nil
}
