// Package cmd implements the specpretty CLI commands using Cobra.
//
// Available commands:
//   - render: Pretty-print a test lifecycle event stream
//   - validate: Check an event log against the event schema
//   - list: Display the test tree recorded in an event log
//   - diff: Compare two JSON run reports
//   - init: Create a starter config and sample event log
//   - version: Show specpretty version information
//
// The CLI supports alternate output formats (json, junit, tap, html),
// follow mode for growing event logs, timing statistics, and webhook
// notifications.
package cmd
