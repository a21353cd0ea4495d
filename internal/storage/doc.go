// Package storage provides JSON-based persistence for fight card snapshots.
//
// A single snapshot.json in the data directory records every card seen on the last
// run, so announce can tell new cards from known ones. The default storage location
// is ~/.local/share/fightcal/. The package also writes rendered artifacts such as the
// calendar file atomically.
package storage
