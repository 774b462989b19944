// Package env reads settings from the process environment.
//
// .env files are loaded with godotenv and never override variables that are
// already set. Overrides maps RESTFIRE_* variables onto a config.Config so
// they can be merged over a config file.
package env
