// Package inventory persists stock records in SQLite and enforces the
// single-active-record rule that the rest of the system builds on.
//
// A physical piece of stock is identified by a scannable identifier such as
// JA000042. Shortening a piece never rewrites its row: the original record is
// deactivated and a remainder record is inserted under a freshly allocated
// identifier carrying a parent pointer. ResolveActive is therefore the only
// correct way to answer "where is this item now"; FindByIdentifier exists as
// the raw first-match primitive and History walks the full lineage in both
// directions.
//
// Location writes go through UpdateLocation, which re-checks the active flag
// inside a single-record transaction and appends to the move audit log, so a
// concurrently superseded record can never be half-updated.
package inventory
