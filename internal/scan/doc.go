// Package scan implements the barcode scan session that accumulates
// relocation requests before anything touches the store.
//
// The session is a three-state machine (identifier, location, optional
// sub-location) driven entirely by classified tokens. Scanning the next item
// finalizes the previous entry, so an operator can walk the shop scanning
// item/location pairs without ever reaching for a keyboard; the DONE token
// exists for the last entry. Nothing is written until the queue is validated
// and executed by the relocate package.
package scan
