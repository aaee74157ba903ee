// Package apiclient is the HTTP client half of the daemon API, used by CLI
// commands that need a running daemon.
package apiclient
