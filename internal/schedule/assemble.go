package schedule

import (
	"strings"
	"time"

	"github.com/pfrederiksen/fightcal/internal/event"
)

// Assembler turns extracted fields and a resolved start into an event.
type Assembler struct {
	zone        *time.Location
	defaultHour int
	duration    time.Duration
	namespace   string
	sourceLabel string
	sourceURL   string
}

// Assemble builds the event for one card. When resolved is false the card starts at the
// default hour in the canonical zone on the card date.
func (a *Assembler) Assemble(f *Fields, start time.Time, resolved bool) (*event.Event, error) {
	if f.Location == "" {
		return nil, ErrMissingLocation
	}

	if !resolved {
		start = time.Date(f.Date.Year(), f.Date.Month(), f.Date.Day(), a.defaultHour, 0, 0, 0, a.zone)
	}

	uid := event.GenerateUID(f.Date, f.Location, f.HeadlineBout, a.namespace)
	if uid == "" {
		return nil, ErrEmptySlug
	}

	title := f.HeadlineBout
	if title == "" {
		title = "Boxing card – " + f.Location
	}

	return &event.Event{
		UID:          uid,
		StableKey:    event.GenerateStableKey(f.Date, f.Location),
		Title:        title,
		Start:        start,
		End:          start.Add(a.duration),
		Location:     f.Location,
		Description:  a.describe(f),
		Date:         f.DateText,
		Info:         f.Info,
		HeadlineBout: f.HeadlineBout,
		DefaultTime:  !resolved,
		SourceURL:    a.sourceURL,
	}, nil
}

// describe renders the fixed-order description lines.
func (a *Assembler) describe(f *Fields) string {
	lines := []string{
		"Date: " + f.DateText,
		"Location: " + f.Location,
	}
	if f.Info != "" {
		lines = append(lines, "Info: "+f.Info)
	}
	if a.sourceLabel != "" {
		lines = append(lines, "Source: "+a.sourceLabel)
	}
	return strings.Join(lines, "\n")
}
