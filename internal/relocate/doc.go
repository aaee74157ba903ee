// Package relocate validates and executes batched relocation queues.
//
// Validation is advisory: it resolves every entry against the live store,
// reports per-entry problems, and may be re-run freely. Execution re-resolves
// each entry inside its own single-record transaction and partitions the
// batch into succeeded and failed entries; there is deliberately no batch
// rollback, so one stale entry never undoes a shelf's worth of applied moves.
package relocate
