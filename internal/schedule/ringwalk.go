package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // zone tables come from config; don't depend on the host zoneinfo
)

// tokenWindow is how many characters may separate a clock time from its zone token.
const tokenWindow = 40

var clockPattern = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})\s*([AP]M)\b`)

// TimeRule ties a zone token in the info text to the zone its clock time is given in.
// An empty Zone means the time is local to the venue and the zone comes from the ZoneTable.
type TimeRule struct {
	Token string `yaml:"token" json:"token"`
	Zone  string `yaml:"zone" json:"zone"`
}

// DefaultTimeRules returns the ET, UK, Local priority order.
func DefaultTimeRules() []TimeRule {
	return []TimeRule{
		{Token: "ET", Zone: "America/New_York"},
		{Token: "UK", Zone: "Europe/London"},
		{Token: "Local"},
	}
}

type timeRule struct {
	TimeRule
	token *regexp.Regexp
}

// Resolver finds the announced ringwalk time in a card's info text.
type Resolver struct {
	rules     []timeRule
	zones     ZoneTable
	locations map[string]*time.Location
	canonical *time.Location
}

// NewResolver loads every zone referenced by rules and zones up front so resolution itself
// cannot fail on a bad zone name.
func NewResolver(rules []TimeRule, zones ZoneTable, canonical *time.Location) (*Resolver, error) {
	r := &Resolver{
		zones:     zones,
		locations: make(map[string]*time.Location),
		canonical: canonical,
	}

	for _, rule := range rules {
		token := strings.TrimSpace(rule.Token)
		if token == "" {
			return nil, fmt.Errorf("time rule with empty token")
		}
		if err := r.load(rule.Zone); err != nil {
			return nil, fmt.Errorf("time rule %q: %w", token, err)
		}
		r.rules = append(r.rules, timeRule{
			TimeRule: rule,
			token:    regexp.MustCompile(`(?i)^.{0,` + strconv.Itoa(tokenWindow) + `}?\b` + regexp.QuoteMeta(token) + `\b`),
		})
	}

	for _, zr := range zones.rules {
		if err := r.load(zr.Zone); err != nil {
			return nil, fmt.Errorf("zone rule %q: %w", zr.Keyword, err)
		}
	}

	return r, nil
}

func (r *Resolver) load(name string) error {
	if name == "" {
		return nil
	}
	if _, ok := r.locations[name]; ok {
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("loading zone: %w", err)
	}
	r.locations[name] = loc
	return nil
}

// Resolve returns the start instant in the canonical zone for the first rule that matches
// info. date supplies the calendar day; location feeds venue-local rules.
func (r *Resolver) Resolve(info string, date time.Time, location string) (time.Time, bool) {
	if strings.TrimSpace(info) == "" {
		return time.Time{}, false
	}

	clocks := clockPattern.FindAllStringSubmatchIndex(info, -1)
	if len(clocks) == 0 {
		return time.Time{}, false
	}

	for _, rule := range r.rules {
		if t, ok := r.apply(rule, info, clocks, date, location); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// apply finds the first clock time whose trailing text carries the rule's token. The window
// stops at the next clock time so a token is never credited to an earlier time.
func (r *Resolver) apply(rule timeRule, info string, clocks [][]int, date time.Time, location string) (time.Time, bool) {
	for i, c := range clocks {
		end := len(info)
		if i+1 < len(clocks) {
			end = clocks[i+1][0]
		}
		if !rule.token.MatchString(info[c[1]:end]) {
			continue
		}

		loc, ok := r.zoneFor(rule, location)
		if !ok {
			return time.Time{}, false
		}

		hour, minute, ok := parseClock(info[c[2]:c[3]], info[c[4]:c[5]], info[c[6]:c[7]])
		if !ok {
			return time.Time{}, false
		}

		local := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, loc)
		return local.In(r.canonical), true
	}
	return time.Time{}, false
}

func (r *Resolver) zoneFor(rule timeRule, location string) (*time.Location, bool) {
	name := rule.Zone
	if name == "" {
		var ok bool
		if name, ok = r.zones.Resolve(location); !ok {
			return nil, false
		}
	}
	loc, ok := r.locations[name]
	return loc, ok
}

// parseClock converts a 12-hour clock reading to 24-hour hour and minute.
func parseClock(h, m, meridiem string) (int, int, bool) {
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 1 || hour > 12 {
		return 0, 0, false
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, false
	}

	hour %= 12
	if strings.EqualFold(meridiem, "PM") {
		hour += 12
	}
	return hour, minute, true
}
