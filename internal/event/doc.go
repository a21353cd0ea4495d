// Package event provides the fight card event model and change tracking between runs.
//
// Each event carries a deterministic UID built from its date and a slug of its location and
// headline bout, plus a StableKey built from date and location only. Snapshots keyed by UID
// report newly announced cards; the stable index reports cards whose headline, start time or
// broadcast info changed.
package event
