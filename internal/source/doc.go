// Package source reads tabular roster files into an ordered stream of raw
// records.
//
// A Reader yields one RawRecord per data row, lazily and exactly once.
// Delimited text and spreadsheet workbooks share the same contract: the
// column layout is checked a single time when the source is opened, an
// optional header row is discarded, and individually malformed rows surface
// as *RowError values the caller can skip without losing the rest of the
// stream.
package source
