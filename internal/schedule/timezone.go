package schedule

import "strings"

// ZoneRule maps a country or region keyword to an IANA zone name.
type ZoneRule struct {
	Keyword string `yaml:"keyword" json:"keyword"`
	Zone    string `yaml:"zone" json:"zone"`
}

// ZoneTable is an ordered, read-only list of ZoneRules. The first rule whose keyword occurs
// in a location wins, so more specific keywords must come before the ones they contain.
type ZoneTable struct {
	rules []ZoneRule
}

// NewZoneTable copies rules into a table.
func NewZoneTable(rules []ZoneRule) ZoneTable {
	return ZoneTable{rules: append([]ZoneRule(nil), rules...)}
}

// DefaultZoneTable returns the table used for the Boxing247 schedule.
func DefaultZoneTable() ZoneTable {
	return NewZoneTable([]ZoneRule{
		{Keyword: "USA", Zone: "America/New_York"},
		{Keyword: "United States", Zone: "America/New_York"},
		{Keyword: "England", Zone: "Europe/London"},
		{Keyword: "Ukraine", Zone: "Europe/Kyiv"},
		{Keyword: "UK", Zone: "Europe/London"},
		{Keyword: "Scotland", Zone: "Europe/London"},
		{Keyword: "New South Wales", Zone: "Australia/Sydney"},
		{Keyword: "Wales", Zone: "Europe/London"},
		{Keyword: "Northern Ireland", Zone: "Europe/London"},
		{Keyword: "Ireland", Zone: "Europe/Dublin"},
		{Keyword: "New Mexico", Zone: "America/Denver"},
		{Keyword: "Mexico", Zone: "America/Mexico_City"},
		{Keyword: "Australia", Zone: "Australia/Brisbane"},
		{Keyword: "New Zealand", Zone: "Pacific/Auckland"},
		{Keyword: "Puerto Rico", Zone: "America/Puerto_Rico"},
		{Keyword: "Germany", Zone: "Europe/Berlin"},
		{Keyword: "Denmark", Zone: "Europe/Copenhagen"},
		{Keyword: "France", Zone: "Europe/Paris"},
		{Keyword: "Spain", Zone: "Europe/Madrid"},
		{Keyword: "Italy", Zone: "Europe/Rome"},
		{Keyword: "Japan", Zone: "Asia/Tokyo"},
		{Keyword: "Philippines", Zone: "Asia/Manila"},
		{Keyword: "Kazakhstan", Zone: "Asia/Almaty"},
		{Keyword: "United Arab Emirates", Zone: "Asia/Dubai"},
		{Keyword: "Saudi Arabia", Zone: "Asia/Riyadh"},
		{Keyword: "South Africa", Zone: "Africa/Johannesburg"},
		{Keyword: "Argentina", Zone: "America/Argentina/Buenos_Aires"},
		{Keyword: "Canada", Zone: "America/Toronto"},
	})
}

// Rules returns a copy of the table's rules in lookup order.
func (t ZoneTable) Rules() []ZoneRule {
	return append([]ZoneRule(nil), t.rules...)
}

// Len reports the number of rules.
func (t ZoneTable) Len() int {
	return len(t.rules)
}

// Resolve returns the zone of the first rule whose keyword is a case-insensitive substring
// of location.
func (t ZoneTable) Resolve(location string) (string, bool) {
	if strings.TrimSpace(location) == "" {
		return "", false
	}

	lower := strings.ToLower(location)
	for _, r := range t.rules {
		if r.Keyword == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(r.Keyword)) {
			return r.Zone, true
		}
	}
	return "", false
}
