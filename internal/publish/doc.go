// Package publish writes a build's segments to their consumer-facing outputs:
// the TSV export, the SQLite database, and the version descriptor the web
// client polls to decide whether its cached database is stale.
//
// The database is staged next to its destination and only swapped in when its
// fingerprint differs from the live file, so an unchanged build leaves the
// live file's bytes and modification time alone.
package publish
