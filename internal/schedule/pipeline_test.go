package schedule

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/fightcal/internal/event"
)

const scheduleText = `
Boxing Schedule 2026

February 5: Montreal, Quebec, Canada 🇨🇦 (Live on TBA | at 8:00 PM ET 🇺🇸 / 1:00 AM UK 🇬🇧)
Albert Ramirez versus Lerrone Richards, 12 rounds, for Ramirez’s WBA interim light heavyweight title

📅 February 6: Guadalajara, Mexico 🇲🇽 (Live on DAZN | at 7:00 PM Local)
Juan Perez vs. Luis Lopez, 10 rounds

📅 February 7: London, England 🏴 (Sky Sports)
Undercard to be announced

📅 February 30: Nowhere (TBA)

📅 April 4: 🇺🇸 (ESPN)

📅 April 5: 東京 (Abema)
`

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Now = fixedNow
	cfg.SourceURL = "https://www.boxing247.com/fight-schedule"
	p, err := New(cfg)
	require.NoError(t, err)
	return p
}

func TestParser_Parse(t *testing.T) {
	p := newTestParser(t)
	chicago := mustZone(t, DefaultZone)

	results := p.Parse(scheduleText)
	require.Len(t, results, 6)

	first := results[0]
	require.True(t, first.OK(), "first card: %v", first.Err)
	assert.Equal(t, "Albert Ramirez versus Lerrone Richards", first.Event.Title)
	assert.Equal(t, "20260205-montreal-quebec-canada-albert-ramirez-versus-lerrone-richards@boxing247-calendar", first.Event.UID)
	assert.True(t, time.Date(2026, time.February, 5, 19, 0, 0, 0, chicago).Equal(first.Event.Start))
	assert.False(t, first.Event.DefaultTime)
	assert.Equal(t, "Montreal, Quebec, Canada", first.Event.Location)
	assert.Equal(t, strings.Join([]string{
		"Date: February 5, 2026",
		"Location: Montreal, Quebec, Canada",
		"Info: Live on TBA | at 8:00 PM ET 🇺🇸 / 1:00 AM UK 🇬🇧",
		"Source: Boxing247.com",
	}, "\n"), first.Event.Description)
	assert.Equal(t, "https://www.boxing247.com/fight-schedule", first.Event.SourceURL)
	assert.True(t, strings.HasPrefix(first.Event.Raw, "February 5:"))

	second := results[1]
	require.True(t, second.OK())
	assert.Equal(t, "Juan Perez versus Luis Lopez", second.Event.Title)
	assert.True(t, time.Date(2026, time.February, 6, 19, 0, 0, 0, mustZone(t, "America/Mexico_City")).Equal(second.Event.Start))

	third := results[2]
	require.True(t, third.OK())
	assert.Equal(t, "Undercard to be announced", third.Event.Title)
	assert.True(t, third.Event.DefaultTime)
	assert.True(t, time.Date(2026, time.February, 7, 21, 0, 0, 0, chicago).Equal(third.Event.Start))
	assert.Equal(t, "Date: February 7, 2026\nLocation: London, England\nInfo: Sky Sports\nSource: Boxing247.com", third.Event.Description)

	assert.ErrorIs(t, results[3].Err, ErrInvalidDate)
	assert.Nil(t, results[3].Event)
	assert.ErrorIs(t, results[4].Err, ErrMissingLocation)
	assert.ErrorIs(t, results[5].Err, ErrEmptySlug)

	for i, r := range results {
		assert.Equal(t, i, r.Index)
	}
}

func TestParser_Invariants(t *testing.T) {
	p := newTestParser(t)
	uidPattern := regexp.MustCompile(`^[0-9]{8}-[a-z0-9-]+@.+$`)
	allowed := regexp.MustCompile(`^[a-z0-9@.-]+$`)

	events := p.Events(scheduleText)
	require.Len(t, events, 3)

	for _, evt := range events {
		assert.Equal(t, 3*time.Hour, evt.End.Sub(evt.Start), evt.UID)
		assert.Regexp(t, uidPattern, evt.UID)
		assert.Regexp(t, allowed, evt.UID)
		assert.NotEmpty(t, evt.StableKey)
	}
}

func TestParser_DefaultTitle(t *testing.T) {
	p := newTestParser(t)

	events := p.Events("March 3: Las Vegas, Nevada, USA 🇺🇸")
	require.Len(t, events, 1)

	evt := events[0]
	assert.Equal(t, "Boxing card – Las Vegas, Nevada, USA", evt.Title)
	assert.Equal(t, "20260303-las-vegas-nevada-usa@boxing247-calendar", evt.UID)
	assert.Equal(t, "Date: March 3, 2026\nLocation: Las Vegas, Nevada, USA\nSource: Boxing247.com", evt.Description)
	assert.True(t, evt.DefaultTime)
}

func TestParser_NoAnchors(t *testing.T) {
	p := newTestParser(t)
	assert.Empty(t, p.Parse("No fights announced yet. Check back soon!"))
	assert.Empty(t, p.Events(""))
}

func TestParser_Deterministic(t *testing.T) {
	p := newTestParser(t)

	a := p.Events(scheduleText)
	b := p.Events(scheduleText)
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].UID, b[i].UID)
		assert.True(t, a[i].Start.Equal(b[i].Start))
	}
}

func TestParser_IdenticalCardsShareUID(t *testing.T) {
	p := newTestParser(t)
	card := "📅 May 2: Las Vegas, Nevada, USA (DAZN) Canelo Álvarez versus William Scull "

	events := p.Events(card + card)
	require.Len(t, events, 2)
	assert.Equal(t, events[0].UID, events[1].UID)
	assert.Equal(t, "20260502-las-vegas-nevada-usa-canelo-alvarez-versus-william-scull@boxing247-calendar", events[0].UID)
}

func TestParser_RequireMarker(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Now = fixedNow
	cfg.RequireMarker = true
	p, err := New(cfg)
	require.NoError(t, err)

	// The quoted date inside the first card's bout text no longer starts a card.
	text := "📅 June 1: Cardiff, Wales (BBC) Lauren Price versus Natasha Jonas, rematch of their March 8: London bout 📅 June 2: Belfast, Northern Ireland (DAZN)"
	events := p.Events(text)
	require.Len(t, events, 2)
	assert.Equal(t, "Lauren Price versus Natasha Jonas", events[0].Title)
	assert.Equal(t, "Belfast, Northern Ireland", events[1].Location)
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad zone", func(c *Config) { c.Zone = "Nowhere/Zone" }},
		{"bad hour", func(c *Config) { c.DefaultHour = 24 }},
		{"zero duration", func(c *Config) { c.Duration = 0 }},
		{"empty namespace", func(c *Config) { c.Namespace = "" }},
		{"bad zone rule", func(c *Config) { c.Zones = NewZoneTable([]ZoneRule{{Keyword: "X", Zone: "Bad/Zone"}}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := New(cfg)
			assert.Error(t, err)
		})
	}
}

func TestSummarize(t *testing.T) {
	p := newTestParser(t)
	s := Summarize(p.Parse(scheduleText))

	assert.Equal(t, 6, s.Cards)
	assert.Equal(t, 3, s.Converted)
	assert.Equal(t, map[string]int{
		"invalid_date":     1,
		"missing_location": 1,
		"empty_slug":       1,
	}, s.Dropped)
}

func TestParser_PanickingCardIsDropped(t *testing.T) {
	p := newTestParser(t)
	assemble := p.assemble
	p.assemble = func(f *Fields, start time.Time, ok bool) (*event.Event, error) {
		if strings.HasPrefix(f.Location, "Guadalajara") {
			panic("boom")
		}
		return assemble(f, start, ok)
	}

	results := p.Parse(scheduleText)
	require.Len(t, results, 6)

	failed := results[1]
	assert.False(t, failed.OK())
	assert.Nil(t, failed.Event)
	assert.ErrorIs(t, failed.Err, ErrAssembly)
	assert.Contains(t, failed.Err.Error(), "boom")
	assert.Equal(t, "assembly", Reason(failed.Err))

	events := Converted(results)
	require.Len(t, events, 2)
	assert.Contains(t, events[0].Location, "Montreal")
	assert.Contains(t, events[1].Location, "London")
}

func TestParser_BoutsWithoutCommas(t *testing.T) {
	p := newTestParser(t)

	events := p.Events("📅 March 7: Las Vegas, Nevada, USA (DAZN) Juan Perez vs. Luis Lopez Mike Tyson vs. Jake Paul")
	require.Len(t, events, 1)
	assert.Equal(t, "Juan Perez versus Luis Lopez", events[0].Title)
	assert.Equal(t, "20260307-las-vegas-nevada-usa-juan-perez-versus-luis-lopez@boxing247-calendar", events[0].UID)
}

func TestConverted(t *testing.T) {
	ok := &event.Event{UID: "a"}
	results := []CardResult{
		{Index: 0, Event: ok},
		{Index: 1, Err: ErrInvalidDate},
		{Index: 2},
	}
	assert.Equal(t, []*event.Event{ok}, Converted(results))
	assert.Empty(t, Converted(nil))
}

func TestReason(t *testing.T) {
	assert.Equal(t, "", Reason(nil))
	assert.Equal(t, "no_date_anchor", Reason(ErrNoDateAnchor))
	assert.Equal(t, "assembly", Reason(ErrAssembly))
}
