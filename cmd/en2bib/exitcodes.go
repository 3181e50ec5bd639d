package main

// Exit codes returned by the CLI.
const (
	ExitSuccess     = 0 // Success, possibly with warnings
	ExitError       = 1 // General error (invalid arguments, I/O failure)
	ExitConfigError = 2 // Configuration file could not be read or parsed
	ExitDataError   = 3 // Input parsed but produced no entries
)
