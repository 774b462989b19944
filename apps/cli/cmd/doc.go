// Package cmd implements the restfire CLI commands using Cobra.
//
// Available commands:
//   - check: Send requests and check their responses
//   - bench: Repeat one request and report latency percentiles
//   - init: Create a .restfire.yaml and .env in the current directory
//   - version: Show restfire version information
//
// Request flags (-X, -H, --data, --query, auth) are shared by check and
// bench. Settings are layered as defaults, config file, RESTFIRE_*
// variables, then flags.
package cmd
