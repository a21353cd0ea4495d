package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/fightcal/internal/event"
	"github.com/pfrederiksen/fightcal/internal/schedule"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt  time.Time         `json:"checked_at"`
	RunID      string            `json:"run_id"`
	Source     string            `json:"source"`
	Filter     string            `json:"filter,omitempty"`
	Events     []*event.Event    `json:"events"`
	EventCount int               `json:"event_count"`
	Summary    *schedule.Summary `json:"summary,omitempty"`
	OnlyNew    bool              `json:"only_new,omitempty"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	label := "cards"
	if result.OnlyNew {
		label = "new cards"
	}

	if result.EventCount == 0 {
		fmt.Fprintf(w, "No %s found.\n", label)
		return nil
	}

	if result.Filter != "" {
		fmt.Fprintf(w, "Filter: %s\n\n", result.Filter)
	}

	for _, evt := range result.Events {
		prefix := ""
		if result.OnlyNew {
			prefix = "NEW: "
		}
		when := evt.Start.Format("Mon Jan 2 15:04 MST")
		if evt.DefaultTime {
			when = evt.Start.Format("Mon Jan 2") + " TBA  "
		}
		fmt.Fprintf(w, "%s%s  %s @ %s\n", prefix, when, evt.Title, evt.Location)
		if verbose {
			fmt.Fprintf(w, "     UID: %s\n", evt.UID)
			if evt.Info != "" {
				fmt.Fprintf(w, "     Info: %s\n", evt.Info)
			}
			if evt.HeadlineBout != "" && evt.HeadlineBout != evt.Title {
				fmt.Fprintf(w, "     Bout: %s\n", evt.HeadlineBout)
			}
		}
	}

	fmt.Fprintf(w, "\nTotal: %d %s\n", result.EventCount, label)
	if verbose && result.Summary != nil && result.Summary.Cards > result.Summary.Converted {
		fmt.Fprintf(w, "Dropped: %d of %d cards\n", result.Summary.Cards-result.Summary.Converted, result.Summary.Cards)
	}

	return nil
}
