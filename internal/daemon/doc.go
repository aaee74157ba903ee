// Package daemon hosts the long-running stockpile process: it opens the
// inventory store, takes the instance lock, and serves the HTTP API the CLI
// talks to.
package daemon
