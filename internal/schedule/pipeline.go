package schedule

import (
	"fmt"
	"time"

	"github.com/pfrederiksen/fightcal/internal/event"
)

// Defaults for the Boxing247 schedule.
const (
	DefaultZone        = "America/Chicago"
	DefaultHour        = 21
	DefaultDuration    = 3 * time.Hour
	DefaultNamespace   = "boxing247-calendar"
	DefaultSourceLabel = "Boxing247.com"
)

// Config controls every tunable part of the pipeline.
type Config struct {
	Zone          string        // canonical output zone
	DefaultHour   int           // start hour when no ringwalk time is announced
	Duration      time.Duration // card length
	Namespace     string        // UID domain part
	SourceLabel   string        // attribution line in descriptions; empty omits it
	SourceURL     string        // copied onto every event
	Markers       []string      // segment-marker glyphs
	RequireMarker bool          // only marker-prefixed anchors start a card
	Separators    []string      // tokens between the fighters of a bout
	Zones         ZoneTable
	TimeRules     []TimeRule
	Now           func() time.Time // clock for the assumed card year
}

// DefaultConfig returns the configuration used for the Boxing247 schedule.
func DefaultConfig() Config {
	return Config{
		Zone:        DefaultZone,
		DefaultHour: DefaultHour,
		Duration:    DefaultDuration,
		Namespace:   DefaultNamespace,
		SourceLabel: DefaultSourceLabel,
		Markers:     []string{DefaultMarker},
		Separators:  DefaultSeparators(),
		Zones:       DefaultZoneTable(),
		TimeRules:   DefaultTimeRules(),
		Now:         time.Now,
	}
}

// CardResult is the outcome for one card: an event or the reason it was dropped.
type CardResult struct {
	Index int
	Span  string
	Event *event.Event
	Err   error
}

// OK reports whether the card produced an event.
func (r CardResult) OK() bool {
	return r.Err == nil && r.Event != nil
}

// Parser runs the whole text-to-event pipeline.
type Parser struct {
	segmenter *Segmenter
	extractor *Extractor
	resolver  *Resolver
	assembler *Assembler
	assemble  func(*Fields, time.Time, bool) (*event.Event, error)
}

// New validates cfg and builds a parser.
func New(cfg Config) (*Parser, error) {
	zone, err := time.LoadLocation(cfg.Zone)
	if err != nil {
		return nil, fmt.Errorf("loading canonical zone %q: %w", cfg.Zone, err)
	}
	if cfg.DefaultHour < 0 || cfg.DefaultHour > 23 {
		return nil, fmt.Errorf("default hour %d out of range", cfg.DefaultHour)
	}
	if cfg.Duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %s", cfg.Duration)
	}
	if cfg.Namespace == "" {
		return nil, fmt.Errorf("namespace is required")
	}

	rules := cfg.TimeRules
	if rules == nil {
		rules = DefaultTimeRules()
	}
	resolver, err := NewResolver(rules, cfg.Zones, zone)
	if err != nil {
		return nil, err
	}

	p := &Parser{
		segmenter: NewSegmenter(cfg.Markers, cfg.RequireMarker),
		extractor: NewExtractor(cfg.Markers, cfg.Separators, zone, cfg.Now),
		resolver:  resolver,
		assembler: &Assembler{
			zone:        zone,
			defaultHour: cfg.DefaultHour,
			duration:    cfg.Duration,
			namespace:   cfg.Namespace,
			sourceLabel: cfg.SourceLabel,
			sourceURL:   cfg.SourceURL,
		},
	}
	p.assemble = p.assembler.Assemble
	return p, nil
}

// Parse processes every card in text. The result has one entry per span, in source order.
func (p *Parser) Parse(text string) []CardResult {
	spans := p.segmenter.Split(Normalize(text))
	results := make([]CardResult, 0, len(spans))
	for _, span := range spans {
		results = append(results, p.parseCard(span))
	}
	return results
}

// Events returns only the successfully assembled events, in source order.
func (p *Parser) Events(text string) []*event.Event {
	return Converted(p.Parse(text))
}

// Converted keeps the events of the successful results, in order.
func Converted(results []CardResult) []*event.Event {
	events := make([]*event.Event, 0, len(results))
	for _, r := range results {
		if r.OK() {
			events = append(events, r.Event)
		}
	}
	return events
}

func (p *Parser) parseCard(span Span) (res CardResult) {
	res = CardResult{Index: span.Index, Span: span.Text}

	defer func() {
		if r := recover(); r != nil {
			res.Event = nil
			res.Err = fmt.Errorf("%w: %v", ErrAssembly, r)
		}
	}()

	fields, err := p.extractor.Extract(span)
	if err != nil {
		res.Err = err
		return res
	}

	start, ok := p.resolver.Resolve(fields.Info, fields.Date, fields.Location)

	evt, err := p.assemble(fields, start, ok)
	if err != nil {
		res.Err = err
		return res
	}
	evt.Raw = span.Text

	res.Event = evt
	return res
}

// Summary counts the outcome of a parse run.
type Summary struct {
	Cards     int            `json:"cards"`
	Converted int            `json:"converted"`
	Dropped   map[string]int `json:"dropped,omitempty"` // by Reason
}

// Summarize tallies results.
func Summarize(results []CardResult) Summary {
	s := Summary{Cards: len(results), Dropped: make(map[string]int)}
	for _, r := range results {
		if r.OK() {
			s.Converted++
			continue
		}
		s.Dropped[Reason(r.Err)]++
	}
	return s
}
