package event

import (
	"crypto/sha1"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Event is one fight card ready to be written to a calendar.
type Event struct {
	UID          string    `json:"uid"`
	StableKey    string    `json:"stable_key"` // date + location; survives bout and time changes
	Title        string    `json:"title"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
	Date         string    `json:"date"`
	Info         string    `json:"info,omitempty"`
	HeadlineBout string    `json:"headline_bout,omitempty"`
	DefaultTime  bool      `json:"default_time,omitempty"` // no announced ringwalk time was found
	Raw          string    `json:"raw"`
	SourceURL    string    `json:"source_url,omitempty"`
	FirstSeen    time.Time `json:"first_seen,omitempty"`
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s, folds accented letters to ASCII and replaces every run of other
// characters with a single hyphen.
func Slugify(s string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}
	return strings.Trim(nonSlug.ReplaceAllString(folded, "-"), "-")
}

// GenerateUID builds "YYYYMMDD-slug@namespace" from the card date, its location and, when
// known, the headline bout. Equal inputs always produce equal UIDs.
func GenerateUID(date time.Time, location, bout, namespace string) string {
	base := location
	if bout != "" {
		base = location + " " + bout
	}
	slug := Slugify(base)
	if slug == "" {
		return ""
	}
	return fmt.Sprintf("%s-%s@%s", date.Format("20060102"), slug, namespace)
}

// GenerateStableKey identifies a card by day and venue only, so a card whose headline or
// start time changes keeps its key.
func GenerateStableKey(date time.Time, location string) string {
	h := sha1.New()
	h.Write([]byte(date.Format("2006-01-02") + "|" + Slugify(location)))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Duration returns the scheduled length of the card.
func (e *Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}
