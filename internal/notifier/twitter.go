package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"
	"github.com/pfrederiksen/slotwatch/internal/report"
)

const tweetLimit = 280

// TwitterCredentials are the OAuth1 user-context keys of the posting account.
type TwitterCredentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// Complete reports whether all four keys are set.
func (c TwitterCredentials) Complete() bool {
	return c.APIKey != "" && c.APISecret != "" && c.AccessToken != "" && c.AccessSecret != ""
}

// TwitterNotifier tweets when a scan finds an opening.
type TwitterNotifier struct {
	client *twitter.Client
}

// NewTwitterNotifier creates a notifier posting as the credentials' account.
func NewTwitterNotifier(creds TwitterCredentials) (*TwitterNotifier, error) {
	if !creds.Complete() {
		return nil, fmt.Errorf("missing required Twitter credentials")
	}

	config := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)
	httpClient := config.Client(oauth1.NoContext, token)

	return &TwitterNotifier{client: twitter.NewClient(httpClient)}, nil
}

func (n *TwitterNotifier) Name() string { return "twitter" }

// Notify posts a tweet listing the open facilities. Scans with nothing open
// are not tweeted.
func (n *TwitterNotifier) Notify(ctx context.Context, m report.Message) error {
	if !m.AnyAvailable {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return &DeliveryError{Channel: n.Name(), Err: err}
	}

	_, resp, err := n.client.Statuses.Update(formatTweet(m), nil)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		return &DeliveryError{Channel: n.Name(), StatusCode: status, Err: err}
	}
	return nil
}

// formatTweet formats the open facilities as a tweet
func formatTweet(m report.Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏃 Gym slots open for %s\n\n", m.Date.Display())
	for _, name := range m.AvailableNames() {
		fmt.Fprintf(&b, "✅ %s\n", name)
	}
	b.WriteString("\n#川口市 #体育館")

	tweet := []rune(b.String())
	if len(tweet) > tweetLimit {
		return string(tweet[:tweetLimit-3]) + "..."
	}
	return string(tweet)
}
