// Package dates converts the heterogeneous date encodings found in roster
// exports into canonical calendar dates.
//
// Sources hand us three shapes: native date values, spreadsheet serial
// numbers counted from the 1899-12-30 epoch, and zero-padded MMDDYYYY text.
// Normalize applies the same rules to all of them and reports a typed
// rejection for anything else, so callers can skip bad rows without
// guessing at the failure mode.
package dates
