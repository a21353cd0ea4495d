package schedule

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// maxBoutRunes caps the fallback headline taken verbatim from the bout listing.
const maxBoutRunes = 200

// Fields holds what one card span says about itself.
type Fields struct {
	Date         time.Time // midnight of the card day in the canonical zone
	DateText     string    // e.g. "February 5, 2026"
	Location     string
	Info         string // broadcast and ringwalk annotations, empty if absent
	HeadlineBout string // empty if absent
	Bouts        string // raw bout listing after the header
}

// Extractor parses card spans into Fields.
type Extractor struct {
	anchor   *regexp.Regexp
	bout     *regexp.Regexp
	nextBout *regexp.Regexp // a separator and a capitalized name right after a bout
	markers  []string
	zone     *time.Location
	now      func() time.Time
}

// NewExtractor builds an extractor. The year of every card is taken from now() in zone.
func NewExtractor(markers, separators []string, zone *time.Location, now func() time.Time) *Extractor {
	if now == nil {
		now = time.Now
	}
	return &Extractor{
		anchor:   regexp.MustCompile(`^` + anchorPattern(markers, false) + `\s*`),
		bout:     regexp.MustCompile(boutPattern(separators)),
		nextBout: regexp.MustCompile(`^\s+(?:` + separatorAlternation(separators) + `)\s+\p{Lu}`),
		markers:  append([]string(nil), markers...),
		zone:     zone,
		now:      now,
	}
}

// Extract parses one span. It fails with ErrNoDateAnchor when the span does not open with a
// date anchor and with ErrInvalidDate when the day does not exist.
func (e *Extractor) Extract(span Span) (*Fields, error) {
	text := span.Text
	m := e.anchor.FindStringSubmatchIndex(text)
	if m == nil {
		return nil, ErrNoDateAnchor
	}

	month, day := text[m[2]:m[3]], text[m[4]:m[5]]
	year := e.now().In(e.zone).Year()

	date, err := time.ParseInLocation("January 2 2006", fmt.Sprintf("%s %s %d", month, day, year), e.zone)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s", ErrInvalidDate, month, day)
	}

	rest := strings.TrimSpace(text[m[1]:])
	header, bouts := splitHeader(rest)
	location, info := splitLocation(header)

	f := &Fields{
		Date:     date,
		DateText: date.Format("January 2, 2006"),
		Location: location,
		Info:     info,
		Bouts:    bouts,
	}

	if bouts != "" {
		f.HeadlineBout = e.headline(bouts)
		if f.HeadlineBout == "" {
			f.HeadlineBout = truncateBouts(bouts, e.markers)
		}
	} else {
		// Some cards put the bout before the broadcast info; look at the whole span.
		f.HeadlineBout = e.headline(text)
	}

	return f, nil
}

// headline finds the first "Name versus Name" pairing and normalizes the separator.
func (e *Extractor) headline(s string) string {
	m := e.bout.FindStringSubmatchIndex(s)
	if m == nil {
		return ""
	}
	left, right := s[m[2]:m[3]], s[m[4]:m[5]]
	if e.nextBout.MatchString(s[m[5]:]) {
		right = dropNextFighter(right)
	}
	return left + " versus " + right
}

// dropNextFighter removes the trailing words of name that open the next bout. With no
// comma between bouts the next fighter is taken to be the last two words, or the last
// word when only two remain.
func dropNextFighter(name string) string {
	words := strings.Fields(name)
	keep := len(words) - 2
	if keep < 1 {
		keep = len(words) - 1
	}
	if keep < 1 {
		return name
	}
	return strings.Join(words[:keep], " ")
}

// splitHeader cuts rest after the parenthesis that closes the first opened one.
func splitHeader(rest string) (header, bouts string) {
	depth := 0
	for i, r := range rest {
		switch r {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				return rest[:i+1], strings.TrimSpace(rest[i+1:])
			}
		}
	}
	return rest, ""
}

// splitLocation separates "City, Country 🇺🇸 (info)" into location and info.
func splitLocation(header string) (location, info string) {
	open := strings.IndexByte(header, '(')
	if open < 0 {
		return cleanLocation(header), ""
	}

	location = cleanLocation(header[:open])
	if end := strings.LastIndexByte(header, ')'); end > open {
		info = strings.TrimSpace(header[open+1 : end])
	}
	return location, info
}

// cleanLocation strips trailing flags and other decoration.
func cleanLocation(s string) string {
	s = strings.TrimSpace(s)
	for {
		trimmed := strings.TrimSpace(strings.TrimRightFunc(s, isDecoration))
		if trimmed == s {
			return s
		}
		s = trimmed
	}
}

func isDecoration(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) && r != '_' && r != ','
}

// truncateBouts returns the bout listing up to the next marker glyph, capped in length.
func truncateBouts(bouts string, markers []string) string {
	head := bouts
	for _, m := range markers {
		if m == "" {
			continue
		}
		if i := strings.Index(head, m); i >= 0 {
			head = head[:i]
		}
	}
	head = strings.TrimSpace(head)

	if utf8.RuneCountInString(head) > maxBoutRunes {
		head = string([]rune(head)[:maxBoutRunes]) + "..."
	}
	return head
}

// boutPattern matches "Name SEP Name" where a name is one or more capitalized words.
func boutPattern(separators []string) string {
	const word = `\p{Lu}[\p{L}\p{M}'’.\-]*`
	const name = word + `(?:\s+` + word + `)*`

	return `(?:^|[^\p{L}\p{M}'’.\-])(` + name + `)\s+(?:` + separatorAlternation(separators) + `)\s+(` + name + `)`
}

// separatorAlternation quotes the separators for a regexp alternation, longest first.
func separatorAlternation(separators []string) string {
	seps := make([]string, 0, len(separators))
	for _, s := range separators {
		if s = strings.TrimSpace(s); s != "" {
			seps = append(seps, s)
		}
	}
	if len(seps) == 0 {
		seps = DefaultSeparators()
	}
	sort.SliceStable(seps, func(i, j int) bool {
		return len(seps[i]) > len(seps[j])
	})
	for i, s := range seps {
		seps[i] = regexp.QuoteMeta(s)
	}
	return strings.Join(seps, "|")
}

// DefaultSeparators lists the tokens placed between the two fighters of a bout.
func DefaultSeparators() []string {
	return []string{"versus", "vs.", "vs", "v."}
}
