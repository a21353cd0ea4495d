package notifier

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"
	"golang.org/x/time/rate"

	"github.com/pfrederiksen/fightcal/internal/event"
)

// TwitterCredentials are the OAuth1 user credentials of the posting account.
type TwitterCredentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// TwitterCredentialsFromEnv reads
// TWITTER_API_KEY, TWITTER_API_SECRET, TWITTER_ACCESS_TOKEN and TWITTER_ACCESS_SECRET.
func TwitterCredentialsFromEnv() TwitterCredentials {
	return TwitterCredentials{
		APIKey:       os.Getenv("TWITTER_API_KEY"),
		APISecret:    os.Getenv("TWITTER_API_SECRET"),
		AccessToken:  os.Getenv("TWITTER_ACCESS_TOKEN"),
		AccessSecret: os.Getenv("TWITTER_ACCESS_SECRET"),
	}
}

func (c TwitterCredentials) complete() bool {
	return c.APIKey != "" && c.APISecret != "" && c.AccessToken != "" && c.AccessSecret != ""
}

// statusUpdater is the part of the Twitter client used for posting.
type statusUpdater interface {
	Update(status string, params *twitter.StatusUpdateParams) (*twitter.Tweet, *http.Response, error)
}

// TwitterNotifier posts cards to Twitter
type TwitterNotifier struct {
	statuses statusUpdater
	pacer    *rate.Limiter
}

// NewTwitterNotifier creates a Twitter notifier that posts at most once per interval
func NewTwitterNotifier(creds TwitterCredentials, interval time.Duration) (*TwitterNotifier, error) {
	if !creds.complete() {
		return nil, fmt.Errorf("missing required Twitter credentials in environment variables")
	}

	config := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)
	httpClient := config.Client(oauth1.NoContext, token)
	client := twitter.NewClient(httpClient)

	return &TwitterNotifier{statuses: client.Statuses, pacer: newPacer(interval)}, nil
}

// Notify posts one status per card
func (n *TwitterNotifier) Notify(ctx context.Context, events []*event.Event) (int, error) {
	return each(ctx, n.pacer, events, func(evt *event.Event) error {
		if _, _, err := n.statuses.Update(FormatTweet(evt), nil); err != nil {
			return fmt.Errorf("failed to post tweet for card %s: %w", evt.UID, err)
		}
		return nil
	})
}
