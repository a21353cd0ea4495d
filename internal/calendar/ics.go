package calendar

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pfrederiksen/fightcal/internal/event"
)

const prodID = "-//fightcal//Boxing Schedule//EN"

// maxLineOctets is the RFC 5545 content line limit, excluding the CRLF.
const maxLineOctets = 75

// Options controls the calendar-level properties.
type Options struct {
	Name     string           // X-WR-CALNAME, omitted when empty
	Comment  string           // COMMENT, omitted when empty
	Timezone string           // X-WR-TIMEZONE hint for clients, omitted when empty
	Now      func() time.Time // DTSTAMP clock; defaults to time.Now
}

// GenerateICS generates an iCalendar (.ics) file for a single card
func GenerateICS(evt *event.Event) string {
	return GenerateBulkICS([]*event.Event{evt}, Options{})
}

// GenerateBulkICS renders every card into one calendar, in the order given.
// Zero events still produce a valid, empty VCALENDAR.
func GenerateBulkICS(events []*event.Event, opts Options) string {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	stamp := formatICSTime(now())

	var ics strings.Builder

	writeLine(&ics, "BEGIN:VCALENDAR")
	writeLine(&ics, "VERSION:2.0")
	writeLine(&ics, "PRODID:"+prodID)
	writeLine(&ics, "CALSCALE:GREGORIAN")
	writeLine(&ics, "METHOD:PUBLISH")
	if opts.Name != "" {
		writeLine(&ics, "X-WR-CALNAME:"+escapeICS(opts.Name))
	}
	if opts.Timezone != "" {
		writeLine(&ics, "X-WR-TIMEZONE:"+opts.Timezone)
	}
	if opts.Comment != "" {
		writeLine(&ics, "COMMENT:"+escapeICS(opts.Comment))
	}

	for _, evt := range events {
		if evt == nil {
			continue
		}
		writeEvent(&ics, evt, stamp)
	}

	writeLine(&ics, "END:VCALENDAR")

	return ics.String()
}

func writeEvent(ics *strings.Builder, evt *event.Event, stamp string) {
	writeLine(ics, "BEGIN:VEVENT")
	writeLine(ics, "UID:"+evt.UID)
	writeLine(ics, "DTSTAMP:"+stamp)

	// Start and end are written in UTC; the instant is what matters to clients.
	writeLine(ics, "DTSTART:"+formatICSTime(evt.Start))
	writeLine(ics, "DTEND:"+formatICSTime(evt.End))

	writeLine(ics, "SUMMARY:"+escapeICS(evt.Title))
	if evt.Location != "" {
		writeLine(ics, "LOCATION:"+escapeICS(evt.Location))
	}
	if evt.Description != "" {
		writeLine(ics, "DESCRIPTION:"+escapeICS(evt.Description))
	}
	if evt.SourceURL != "" {
		writeLine(ics, "URL:"+evt.SourceURL)
	}

	writeLine(ics, "STATUS:CONFIRMED")
	writeLine(ics, "TRANSP:OPAQUE")
	writeLine(ics, "END:VEVENT")
}

// writeLine folds a content line at 75 octets, continuing with a single space, and
// terminates every physical line with CRLF. Folds never split a UTF-8 sequence.
func writeLine(b *strings.Builder, line string) {
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		limit = maxLineOctets - 1 // the leading space counts
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}

// formatICSTime formats a time.Time as an iCalendar UTC datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\r\n", "\\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// Unfold reverses line folding; useful for tests and for reading calendars back.
func Unfold(ics string) []string {
	var lines []string
	for _, raw := range strings.Split(ics, "\r\n") {
		if strings.HasPrefix(raw, " ") && len(lines) > 0 {
			lines[len(lines)-1] += raw[1:]
			continue
		}
		if raw != "" {
			lines = append(lines, raw)
		}
	}
	return lines
}

// Summary returns the "Wrote N events" line printed after a build.
func Summary(n int, path string) string {
	return fmt.Sprintf("Wrote %d events to %s", n, path)
}
