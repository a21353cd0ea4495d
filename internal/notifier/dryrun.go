package notifier

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/pfrederiksen/fightcal/internal/event"
)

// DryRunNotifier prints what would be posted without actually posting
type DryRunNotifier struct {
	out    io.Writer
	format func(*event.Event) string
}

// NewDryRunNotifier creates a dry-run notifier that renders messages with format
func NewDryRunNotifier(out io.Writer, format func(*event.Event) string) *DryRunNotifier {
	if format == nil {
		format = FormatTweet
	}
	return &DryRunNotifier{out: out, format: format}
}

// Notify prints the messages that would be posted
func (n *DryRunNotifier) Notify(ctx context.Context, events []*event.Event) (int, error) {
	for i, evt := range events {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		msg := n.format(evt)
		fmt.Fprintf(n.out, "--- Post %d/%d ---\n", i+1, len(events))
		fmt.Fprintln(n.out, msg)
		fmt.Fprintf(n.out, "\n(Length: %d characters)\n\n", utf8.RuneCountInString(msg))
	}
	return len(events), nil
}
