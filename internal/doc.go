// Package internal holds the agenda server internals.
//
// The internal tree is organized by responsibility:
// - api: HTTP handlers, middleware, problem responses, and routing
// - domain: per-user calendars, task groups, events, and tasks plus the
//   time range and ownership rules they share
// - storage: Postgres repositories and migrations
// - auth, audit, config, metrics, telemetry: shared infrastructure
//
// Code in internal/ is not meant for external import.
package internal
