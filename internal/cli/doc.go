// Package cli implements the command-line interface for fightcal.
//
// The cli package provides the Cobra-based CLI with three commands: build writes the
// schedule as an iCalendar file (optionally uploading it to S3), list prints the parsed
// cards as text or JSON with filtering and sorting, and announce diffs the cards against
// the stored snapshot and posts the new ones. It coordinates the config, scraper,
// schedule, calendar, storage, notifier, publish and metrics packages.
package cli
