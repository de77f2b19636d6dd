// Package store writes the segment list to the SQLite database consumed by the
// web client and reads it back for maintenance commands.
//
// The database is a build artifact, not a working store: every build writes a
// fresh file with a single transaction so that unchanged input yields a
// byte-identical file. Publishing that file over the live one is the job of
// package publish.
package store
