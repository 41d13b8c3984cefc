// Package history keeps a queryable record of every generated daily plan.
// Stores append PlanRecords and return them in insertion order; JSONL files
// (optionally rotated) and SQLite databases are supported.
package history
