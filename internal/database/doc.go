// Package database stores darklink scan runs in SQLite.
//
// Each run is a row in runs; each checked URL of the run is a row in
// url_results with its matched rules, hidden links and attempts. The
// history command reads this back to show when a rule first appeared on
// a page or disappeared from it.
//
// The store uses modernc.org/sqlite (no cgo) with WAL enabled and lives
// in the XDG data directory by default.
package database
