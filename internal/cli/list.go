package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/fightcal/internal/filter"
	"github.com/pfrederiksen/fightcal/internal/schedule"
)

type listOptions struct {
	input    string
	format   string
	dates    string
	location []string
	bout     []string
	weekends bool
	upcoming bool
	sort     string
	verbose  bool
}

func newListCmd(a *app) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the parsed fight cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "Read schedule text from FILE instead of fetching ('-' for stdin)")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&opts.dates, "dates", "", "Date range, e.g. 'Mar 1-15', 'March 1 - April 15', 'Feb 5' or 'March'")
	cmd.Flags().StringSliceVar(&opts.location, "location", nil, "Only cards whose location contains S (repeatable)")
	cmd.Flags().StringSliceVar(&opts.bout, "bout", nil, "Only cards whose bout contains S (repeatable)")
	cmd.Flags().BoolVar(&opts.weekends, "weekends", false, "Only Friday to Sunday cards")
	cmd.Flags().BoolVar(&opts.upcoming, "upcoming", false, "Only cards that have not finished")
	cmd.Flags().StringVar(&opts.sort, "sort", "date", "Sort order: date, location or title")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Show UIDs and broadcast info")

	return cmd
}

func (a *app) runList(cmd *cobra.Command, opts *listOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Validate format
	format := OutputFormat(strings.ToLower(opts.format))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", opts.format)
	}
	order, err := parseSortOrder(opts.sort)
	if err != nil {
		return err
	}

	f, err := a.buildFilter(opts)
	if err != nil {
		return err
	}

	text, sourceURL, err := a.loadText(ctx, opts.input)
	if err != nil {
		return err
	}
	results, err := a.parse(text, sourceURL)
	if err != nil {
		return err
	}

	evts := f.Apply(schedule.Converted(results))
	sortEvents(evts, order)

	summary := schedule.Summarize(results)
	result := &OutputResult{
		CheckedAt:  a.now().UTC(),
		RunID:      a.runID,
		Source:     sourceURL,
		Events:     evts,
		EventCount: len(evts),
		Summary:    &summary,
	}
	if !f.IsEmpty() {
		result.Filter = f.String()
	}

	if err := WriteOutput(cmd.OutOrStdout(), result, format, opts.verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func (a *app) buildFilter(opts *listOptions) (*filter.Filter, error) {
	f := filter.NewFilter()
	f.Now = a.now
	if opts.dates != "" {
		loc, err := time.LoadLocation(a.cfg.CanonicalZone)
		if err != nil {
			return nil, err
		}
		from, to, err := filter.ParseDateRange(opts.dates, a.now(), loc)
		if err != nil {
			return nil, err
		}
		f.DateFrom, f.DateTo = from, to
	}
	f.Locations = append(f.Locations, opts.location...)
	f.Bouts = append(f.Bouts, opts.bout...)
	f.WeekendsOnly = opts.weekends
	f.UpcomingOnly = opts.upcoming
	return f, nil
}
