package schedule

import "errors"

var (
	// ErrNoDateAnchor means a span does not start with a "Month Day:" anchor.
	ErrNoDateAnchor = errors.New("span does not start with a date anchor")
	// ErrInvalidDate means the anchor names a day that does not exist in the assumed year.
	ErrInvalidDate = errors.New("invalid card date")
	// ErrMissingLocation means the card header carries no usable location.
	ErrMissingLocation = errors.New("card has no location")
	// ErrEmptySlug means no identifier could be derived from the card text.
	ErrEmptySlug = errors.New("card text yields an empty slug")
	// ErrAssembly wraps unexpected failures while building a single card.
	ErrAssembly = errors.New("card assembly failed")
)

// Reason maps a per-card error to a short label used in logs and metrics.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoDateAnchor):
		return "no_date_anchor"
	case errors.Is(err, ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, ErrMissingLocation):
		return "missing_location"
	case errors.Is(err, ErrEmptySlug):
		return "empty_slug"
	default:
		return "assembly"
	}
}
