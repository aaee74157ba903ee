// Package api defines the transport DTOs and service layer shared by the
// daemon's HTTP handlers and the CLI.
//
// Services wrap the inventory store and domain engines behind narrow
// interfaces and translate between storage types and JSON-friendly payloads.
// Decimal dimensions are carried as strings end to end.
package api
