package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/fightcal/internal/logger"
	"github.com/pfrederiksen/fightcal/internal/schedule"
	"github.com/pfrederiksen/fightcal/internal/scraper"
)

// maxLoggedSpan bounds how much of a dropped card is logged.
const maxLoggedSpan = 120

// loadText returns the schedule text and the URL to attribute it to. An empty input
// fetches the live page, "-" reads stdin, and .html/.htm files go through the HTML
// text extractor.
func (a *app) loadText(ctx context.Context, input string) (string, string, error) {
	if input == "" {
		cfg := a.cfg.ScraperConfig()
		cfg.RetryNotify = func(err error, wait time.Duration) {
			a.log.Warn("Fetch failed, retrying", logger.Fields{"url": cfg.URL, "wait": wait.String(), "error": err.Error()})
		}
		sc := scraper.New(cfg)

		a.log.Info("Fetching schedule", logger.Fields{"url": sc.URL()})
		started := time.Now()
		text, err := sc.FetchText(ctx)
		a.metrics.ObserveFetch(time.Since(started))
		if err != nil {
			return "", "", fmt.Errorf("fetching schedule: %w", err)
		}
		return text, sc.URL(), nil
	}

	var data []byte
	var err error
	if input == "-" {
		data, err = io.ReadAll(a.stdin)
	} else {
		data, err = os.ReadFile(input)
	}
	if err != nil {
		return "", "", fmt.Errorf("reading input: %w", err)
	}

	switch strings.ToLower(filepath.Ext(input)) {
	case ".html", ".htm":
		text, err := scraper.ExtractText(bytes.NewReader(data))
		if err != nil {
			return "", "", err
		}
		return text, a.cfg.SourceURL, nil
	}
	return string(data), a.cfg.SourceURL, nil
}

// parse runs the pipeline and logs every dropped card.
func (a *app) parse(text, sourceURL string) ([]schedule.CardResult, error) {
	cfg := a.cfg.ScheduleConfig(sourceURL)
	cfg.Now = a.now

	p, err := schedule.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating parser: %w", err)
	}

	results := p.Parse(text)
	for _, r := range results {
		if r.OK() {
			continue
		}
		a.log.Warn("Card dropped", logger.Fields{
			"index":  r.Index,
			"reason": schedule.Reason(r.Err),
			"span":   truncate(r.Span, maxLoggedSpan),
		})
	}

	summary := schedule.Summarize(results)
	a.metrics.ObserveCards(summary.Converted, summary.Dropped)
	a.log.Info("Parsed schedule", logger.Fields{
		"cards":     summary.Cards,
		"converted": summary.Converted,
		"dropped":   summary.Cards - summary.Converted,
	})
	return results, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
