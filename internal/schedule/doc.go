// Package schedule turns a scraped fight-schedule text blob into calendar-ready events.
//
// The pipeline normalizes the text, splits it into one span per card at each "Month Day:"
// anchor, extracts the date, location, broadcast info and headline bout from every span,
// resolves an announced ringwalk time into the canonical zone, and assembles an event.Event
// with a deterministic UID. Each card is processed independently: a malformed card yields a
// CardResult carrying the reason it was dropped and never aborts the batch.
//
// The package performs no I/O. Fetching the text and rendering the events belong to the
// scraper and calendar packages.
package schedule
