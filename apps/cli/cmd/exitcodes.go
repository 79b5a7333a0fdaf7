package cmd

// Exit codes for pathmatch CLI
const (
	// ExitSuccess indicates all cases passed
	ExitSuccess = 0

	// ExitTestFailure indicates one or more cases failed
	ExitTestFailure = 1

	// ExitParseError indicates a suite or body file could not be loaded
	ExitParseError = 2

	// ExitConfigError indicates a configuration error, including an unusable
	// path or schema in a one-off check
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
