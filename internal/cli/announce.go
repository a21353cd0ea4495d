package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/fightcal/internal/event"
	"github.com/pfrederiksen/fightcal/internal/filter"
	"github.com/pfrederiksen/fightcal/internal/logger"
	"github.com/pfrederiksen/fightcal/internal/notifier"
	"github.com/pfrederiksen/fightcal/internal/schedule"
	"github.com/pfrederiksen/fightcal/internal/storage"
)

const (
	ChannelTwitter  = "twitter"
	ChannelTelegram = "telegram"
)

type announceOptions struct {
	input       string
	dryRun      bool
	channel     string
	max         int
	refresh     bool
	format      string
	metricsFile string
}

func newAnnounceCmd(a *app) *cobra.Command {
	opts := &announceOptions{}

	cmd := &cobra.Command{
		Use:   "announce",
		Short: "Announce cards added since the last run",
		Long: `Compares the schedule against the stored snapshot and posts every new upcoming card.
Cards that could not be posted stay out of the snapshot and are retried on the next run.
Exits with status 2 when new cards were found.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnnounce(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "Read schedule text from FILE instead of fetching ('-' for stdin)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print posts without sending them or saving the snapshot")
	cmd.Flags().StringVar(&opts.channel, "channel", ChannelTwitter, "Channel: twitter or telegram")
	cmd.Flags().IntVar(&opts.max, "max", 10, "Maximum number of posts")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "Refresh snapshot without announcing")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to FILE")

	return cmd
}

func (a *app) runAnnounce(cmd *cobra.Command, opts *announceOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	channel := strings.ToLower(strings.TrimSpace(opts.channel))
	if channel != ChannelTwitter && channel != ChannelTelegram {
		return fmt.Errorf("invalid channel: %s (must be 'twitter' or 'telegram')", opts.channel)
	}
	format := OutputFormat(strings.ToLower(opts.format))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", opts.format)
	}
	if opts.max < 0 {
		return fmt.Errorf("--max must not be negative")
	}

	store, err := storage.New(a.cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	text, sourceURL, err := a.loadText(ctx, opts.input)
	if err != nil {
		return err
	}
	results, err := a.parse(text, sourceURL)
	if err != nil {
		return err
	}
	current := schedule.Converted(results)

	previous, err := store.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}
	a.log.Debug("Loaded snapshot", logger.Fields{"events": len(previous.Events), "dir": store.Dir()})

	diff := event.Diff(previous, current, a.now())
	for _, c := range diff.Changes {
		a.log.Info("Card changed", logger.Fields{
			"uid":    c.UID,
			"change": c.ChangeType,
			"old":    c.OldValue,
			"new":    c.NewValue,
		})
	}

	// In refresh mode, record everything without announcing
	if opts.refresh {
		if err := a.saveSnapshot(store, current, previous, diff, nil); err != nil {
			return err
		}
		fmt.Fprintln(out, "Snapshot refreshed successfully.")
		return a.writeMetrics(opts.metricsFile)
	}

	upcoming := (&filter.Filter{UpcomingOnly: true, Now: a.now}).Apply(diff.NewEvents)
	pending := upcoming
	if len(pending) > opts.max {
		pending = pending[:opts.max]
	}

	n, err := a.newNotifier(channel, opts.dryRun, out)
	if err != nil {
		return fmt.Errorf("initializing %s notifier: %w", channel, err)
	}

	sent, notifyErr := n.Notify(ctx, pending)
	if !opts.dryRun {
		for i := 0; i < sent; i++ {
			a.metrics.ObserveNotification(channel, nil)
		}
		if notifyErr != nil {
			a.metrics.ObserveNotification(channel, notifyErr)
		}
	}
	a.log.Info("Announced cards", logger.Fields{
		"channel": channel,
		"new":     len(diff.NewEvents),
		"pending": len(pending),
		"sent":    sent,
		"dry_run": opts.dryRun,
	})

	if !opts.dryRun {
		held := unannounced(upcoming, pending[:sent])
		if err := a.saveSnapshot(store, current, previous, diff, held); err != nil {
			return err
		}
	}

	if notifyErr != nil {
		return fmt.Errorf("announcing on %s: %w", channel, notifyErr)
	}

	if format == FormatJSON {
		result := &OutputResult{
			CheckedAt:  a.now().UTC(),
			RunID:      a.runID,
			Source:     sourceURL,
			Events:     diff.NewEvents,
			EventCount: len(diff.NewEvents),
			OnlyNew:    true,
		}
		if err := WriteOutput(out, result, format, false); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	} else if !opts.dryRun {
		fmt.Fprintf(out, "Posted %d of %d new cards to %s\n", sent, len(diff.NewEvents), channel)
	}

	if err := a.writeMetrics(opts.metricsFile); err != nil {
		return err
	}

	// Set exit code based on whether new cards were found
	if len(diff.NewEvents) > 0 {
		return &exitCodeError{code: ExitNewEvents}
	}
	return nil
}

// unannounced returns the UIDs of upcoming new cards that were not posted, whether held
// back by --max or by a failed post.
func unannounced(upcoming, posted []*event.Event) map[string]bool {
	done := make(map[string]bool, len(posted))
	for _, evt := range posted {
		done[evt.UID] = true
	}

	held := make(map[string]bool)
	for _, evt := range upcoming {
		if !done[evt.UID] {
			held[evt.UID] = true
		}
	}
	return held
}

// saveSnapshot stores every current card except the held ones, so those are new again on
// the next run.
func (a *app) saveSnapshot(store *storage.Storage, current []*event.Event, previous *event.Snapshot, diff *event.DiffResult, held map[string]bool) error {
	kept := make([]*event.Event, 0, len(current))
	for _, evt := range current {
		if !held[evt.UID] {
			kept = append(kept, evt)
		}
	}

	if _, err := store.CreateSnapshotFromEvents(kept, previous, diff.Changes); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	a.log.Debug("Saved snapshot", logger.Fields{"events": len(kept), "held": len(held)})
	return nil
}

func defaultNotifier(channel string, dryRun bool, out io.Writer) (notifier.Notifier, error) {
	if dryRun {
		format := notifier.FormatTweet
		if channel == ChannelTelegram {
			format = notifier.FormatHTML
		}
		return notifier.NewDryRunNotifier(out, format), nil
	}

	switch channel {
	case ChannelTelegram:
		return notifier.NewTelegramNotifier("", "", notifier.DefaultInterval)
	default:
		return notifier.NewTwitterNotifier(notifier.TwitterCredentialsFromEnv(), notifier.DefaultInterval)
	}
}
