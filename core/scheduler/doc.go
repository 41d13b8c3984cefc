// Package scheduler builds daily pet care plans. Tasks are prioritised,
// greedily fitted into the owner's daily time budget, re-ordered through the
// day and checked for crowded time buckets. Every decision is recorded in a
// plain-text explanation attached to the resulting DailySchedule.
package scheduler
