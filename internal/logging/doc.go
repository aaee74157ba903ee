// Package logging builds the slog loggers used by the daemon and CLI.
//
// Two output formats are supported: a compact console format that prefixes
// messages with their component attribute, and standard JSON for log
// collectors. Output can fan out to stdout and a file under the configured
// log directory.
package logging
