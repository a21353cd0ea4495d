package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/fightcal/internal/calendar"
	"github.com/pfrederiksen/fightcal/internal/logger"
	"github.com/pfrederiksen/fightcal/internal/publish"
	"github.com/pfrederiksen/fightcal/internal/schedule"
	"github.com/pfrederiksen/fightcal/internal/storage"
)

type buildOptions struct {
	input       string
	output      string
	publish     bool
	metricsFile string
}

func newBuildCmd(a *app) *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Write the fight schedule as an iCalendar file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBuild(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "Read schedule text from FILE instead of fetching ('-' for stdin)")
	cmd.Flags().StringVar(&opts.output, "output", "", "Calendar file to write ('-' for stdout, default boxing_schedule.ics)")
	cmd.Flags().BoolVar(&opts.publish, "publish", false, "Upload the calendar to the configured S3 bucket")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to FILE")

	return cmd
}

func (a *app) runBuild(cmd *cobra.Command, opts *buildOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	output := opts.output
	if output == "" {
		output = a.cfg.Output
	}

	text, sourceURL, err := a.loadText(ctx, opts.input)
	if err != nil {
		return err
	}

	results, err := a.parse(text, sourceURL)
	if err != nil {
		return err
	}
	evts := schedule.Converted(results)

	ics := calendar.GenerateBulkICS(evts, calendar.Options{
		Name:     a.cfg.CalendarName,
		Comment:  a.cfg.CalendarComment,
		Timezone: a.cfg.CanonicalZone,
		Now:      a.now,
	})

	if output == "-" {
		if _, err := fmt.Fprint(cmd.OutOrStdout(), ics); err != nil {
			return fmt.Errorf("writing calendar: %w", err)
		}
		a.log.Info(calendar.Summary(len(evts), "stdout"), nil)
	} else {
		if err := storage.WriteFile(output, []byte(ics), 0o644); err != nil {
			return fmt.Errorf("writing calendar: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), calendar.Summary(len(evts), output))
	}

	if opts.publish {
		if err := a.publishCalendar(ctx, []byte(ics)); err != nil {
			return err
		}
	}

	summary := schedule.Summarize(results)
	a.log.Info("Build complete", logger.Fields{
		"events":  len(evts),
		"dropped": summary.Dropped,
		"output":  output,
	})

	return a.writeMetrics(opts.metricsFile)
}

func (a *app) publishCalendar(ctx context.Context, body []byte) error {
	p, err := a.newPublisher(ctx, a.cfg.PublishConfig())
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}

	res, err := p.Publish(ctx, a.cfg.S3.Key, body, publish.ContentTypeCalendar)
	if err != nil {
		return fmt.Errorf("publishing calendar: %w", err)
	}

	a.log.Info("Published calendar", logger.Fields{
		"location": res.Location(),
		"etag":     res.ETag,
		"bytes":    res.Size,
	})
	return nil
}

func defaultPublisher(ctx context.Context, cfg publish.S3Config) (publish.Publisher, error) {
	return publish.NewS3Publisher(ctx, cfg)
}
