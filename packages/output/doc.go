// Package output provides formatters for displaying test results.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON output
//   - JUnit: JUnit XML format for CI integration
//   - TAP: Test Anything Protocol format
//   - HTML: Standalone report page
//
// Every formatter consumes the same decoded event stream. The console
// formatter renders incrementally; the others accumulate results and
// write everything on Flush.
package output
