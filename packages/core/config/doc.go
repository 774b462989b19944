// Package config loads restfire settings.
//
// Settings come from the first of .restfire.json, restfire.json,
// .restfire.yml or .restfire.yaml found in a directory, layered over
// DefaultConfig. Merge lets callers place environment or flag overrides on
// top, and ClientOptions turns the result into HTTP client options.
package config
