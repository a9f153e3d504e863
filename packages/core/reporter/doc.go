// Package reporter implements the streaming pretty formatter for test
// lifecycle events.
//
// It provides functionality for:
//   - Rendering nested test progress with per-file grouping
//   - Accumulating failures and run counters across an event stream
//   - Emitting an aggregate summary once the stream ends
//
// A Reporter consumes one event at a time and returns the text produced
// for it, so callers decide where the output goes.
package reporter
