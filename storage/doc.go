// Package storage implements the table registry and the simplified row
// operations on top of a single SQLite file.
//
// A Store owns one long-lived connection and serializes its operations.
// The package level functions (CreateTable, Insert, Query, ...) open a
// Store for the given filename, run a single operation and close it again,
// for callers that do not want to manage a Store themselves.
//
// Every user table created through this package is recorded in the reserved
// "tables" registry table together with its ordered column list. Existence
// checks go through the registry, not through sqlite_master.
package storage
