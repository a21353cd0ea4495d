package notifier

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/pfrederiksen/fightcal/internal/event"
)

// maxTweetRunes is the Twitter status limit.
const maxTweetRunes = 280

const hashtags = "#Boxing #FightNight"

// formatStart renders the card start in the zone it is stored in.
func formatStart(evt *event.Event) string {
	if evt.Start.IsZero() {
		return evt.Date
	}
	s := evt.Start.Format("Mon Jan 2, 3:04 PM MST")
	if evt.DefaultTime {
		s = evt.Start.Format("Mon Jan 2") + " (time TBA)"
	}
	return s
}

// FormatTweet formats a card as a status of at most 280 characters
func FormatTweet(evt *event.Event) string {
	var b strings.Builder

	b.WriteString("🥊 New fight card!\n\n")
	fmt.Fprintf(&b, "%s\n", evt.Title)
	fmt.Fprintf(&b, "📅 %s\n", formatStart(evt))
	if evt.Location != "" {
		fmt.Fprintf(&b, "📍 %s\n", evt.Location)
	}
	if evt.Info != "" {
		fmt.Fprintf(&b, "📺 %s\n", evt.Info)
	}
	b.WriteString("\n" + hashtags)

	tweet := b.String()
	if utf8.RuneCountInString(tweet) > maxTweetRunes {
		// Keep the hashtags and cut the body
		body := []rune(strings.TrimSuffix(tweet, "\n"+hashtags))
		keep := maxTweetRunes - utf8.RuneCountInString("...\n\n"+hashtags)
		tweet = string(body[:keep]) + "...\n\n" + hashtags
	}
	return tweet
}

// FormatHTML formats a card as a Telegram HTML message
func FormatHTML(evt *event.Event) string {
	var msg strings.Builder

	msg.WriteString("🥊 <b>New fight card!</b>\n\n")
	fmt.Fprintf(&msg, "<b>%s</b>\n", html.EscapeString(evt.Title))
	fmt.Fprintf(&msg, "📅 %s\n", html.EscapeString(formatStart(evt)))
	if evt.Location != "" {
		fmt.Fprintf(&msg, "📍 %s\n", html.EscapeString(evt.Location))
	}
	if evt.Info != "" {
		fmt.Fprintf(&msg, "📺 <i>%s</i>\n", html.EscapeString(evt.Info))
	}
	if evt.SourceURL != "" {
		fmt.Fprintf(&msg, "\n🔗 <a href=\"%s\">Full schedule</a>\n", html.EscapeString(evt.SourceURL))
	}
	msg.WriteString("\n" + hashtags)

	return msg.String()
}
