package main

// Exit codes
const (
	ExitSuccess      = 0 // Success
	ExitError        = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError  = 2 // Configuration error (missing config file, invalid settings)
	ExitAuthError    = 3 // Missing or invalid PURE_API_KEY
	ExitConnectivity = 4 // Pure or Ricgraph unreachable; nothing was staged
)
