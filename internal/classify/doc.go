// Package classify turns raw scanned tokens into identifier, location,
// sub-location, or finalize classifications.
//
// Classification is total: every token maps to exactly one kind, with
// sub-location as the catch-all. That keeps the scanner loop simple and
// robust; garbage input queues as a sub-location and is rejected by
// validation with a precise reason instead of being dropped at scan time.
package classify
