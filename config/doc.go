// Package config loads and validates the semtrace configuration. It is the
// external collaborator of the instrumentation core: the core packages
// consume a validated [Config] value and never touch files or environment
// variables themselves.
//
// [Load] reads SEMTRACE_-prefixed environment variables (optionally seeded
// from a .env file via godotenv) into a Config and validates it. Programs
// that manage configuration elsewhere can construct a Config directly and
// call [Config.Validate].
package config
