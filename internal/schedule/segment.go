package schedule

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultMarker is the calendar glyph the source puts in front of most cards.
const DefaultMarker = "📅"

var monthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Span is the slice of normalized text describing one card.
type Span struct {
	Index  int    // position in the split result
	Offset int    // byte offset of the anchor in the normalized text
	Text   string // trimmed span text, starting at the anchor
}

// Segmenter splits normalized schedule text at "Month Day:" anchors.
type Segmenter struct {
	anchor *regexp.Regexp
}

// NewSegmenter builds a segmenter for the given marker glyphs. When requireMarker is set
// only anchors preceded by one of the markers start a new card.
func NewSegmenter(markers []string, requireMarker bool) *Segmenter {
	return &Segmenter{
		anchor: regexp.MustCompile(anchorPattern(markers, requireMarker)),
	}
}

// Split returns the card spans in source order. Text without anchors yields no spans.
func (s *Segmenter) Split(text string) []Span {
	locs := s.anchor.FindAllStringIndex(text, -1)
	spans := make([]Span, 0, len(locs))

	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}

		segment := strings.TrimSpace(text[loc[0]:end])
		if segment == "" {
			continue
		}

		spans = append(spans, Span{
			Index:  len(spans),
			Offset: loc[0],
			Text:   segment,
		})
	}

	return spans
}

// anchorPattern builds "(marker\s*)?(Month)\s+(\d{1,2}):" with month and day as the first
// two capture groups.
func anchorPattern(markers []string, requireMarker bool) string {
	months := `(` + strings.Join(monthNames, "|") + `)\s+(\d{1,2}):`

	marker := markerAlternation(markers)
	if marker == "" {
		return months
	}
	if requireMarker {
		return `(?:` + marker + `)\s*` + months
	}
	return `(?:(?:` + marker + `)\s*)?` + months
}

// markerAlternation quotes the markers and orders them longest first so a glyph that is a
// prefix of another never shadows it.
func markerAlternation(markers []string) string {
	quoted := make([]string, 0, len(markers))
	for _, m := range markers {
		if m = strings.TrimSpace(m); m != "" {
			quoted = append(quoted, m)
		}
	}
	sort.SliceStable(quoted, func(i, j int) bool {
		return len(quoted[i]) > len(quoted[j])
	})
	for i, m := range quoted {
		quoted[i] = regexp.QuoteMeta(m)
	}
	return strings.Join(quoted, "|")
}
