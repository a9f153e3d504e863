package cmd

// Exit codes for the specpretty CLI
const (
	// ExitSuccess indicates the rendered run passed
	ExitSuccess = 0

	// ExitTestFailure indicates the rendered run reported failure
	ExitTestFailure = 1

	// ExitParseError indicates the event stream could not be read or validated
	ExitParseError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
