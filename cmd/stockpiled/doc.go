// Command stockpiled runs the stockpile daemon: it owns the inventory
// database and serves the HTTP API until interrupted.
package main
