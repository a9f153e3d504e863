// Package event defines the test lifecycle event model and its JSON-Lines
// decoder.
//
// It provides functionality for:
//   - Typed events for the test:* lifecycle kinds
//   - Tolerant decoding of one event per line (optional fields come back
//     zero-valued, unknown kinds are reported, never fatal)
//   - A Scanner for driving a whole stream
//   - Parsing of the machine-readable counter lines carried by diagnostics
package event
