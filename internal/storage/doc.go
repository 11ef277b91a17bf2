// Package storage reads and writes exam snapshots.
//
// A snapshot is a single JSON array of exam records, pretty-printed with two
// spaces and written without HTML escaping so course titles stay readable.
// SaveSnapshot replaces the file atomically: it writes a temporary file next
// to the target and renames it into place, so readers (including a running
// API server) never see a half-written snapshot. Paths starting with ~/ are
// expanded to the user's home directory.
package storage
