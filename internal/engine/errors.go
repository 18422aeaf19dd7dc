// Package engine implements the inspection record extraction and
// normalization pipeline: sheet selection, field extraction via one of two
// strategies, record building, and in-memory aggregation.
package engine

import "errors"

// ErrNoTables is the only fatal input condition: the caller supplied no
// sheets at all. Everything below this level degrades per row or per
// field instead of failing the run.
var ErrNoTables = errors.New("no input tables supplied")
