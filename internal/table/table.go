// Package table defines the tabular input contract of the inspection
// engine: an ordered collection of named sheets, each a 2-D cell grid.
// The engine never opens files itself; loaders in this package act as the
// spreadsheet-reader collaborator.
package table

import "strings"

// Cell is a single spreadsheet cell. The empty string means blank/absent;
// numeric cells arrive already rendered as text by the reader.
type Cell = string

// Grid is a row-major 2-D cell grid. Rows may have different lengths.
type Grid [][]Cell

// Sheet is one named tab of a workbook.
type Sheet struct {
	Name string `json:"name"`
	Grid Grid   `json:"grid"`
}

// Collection is an ordered set of sheets. Order matters: sheet selection
// breaks density ties by first-encountered order.
type Collection []Sheet

// At returns the cell at (row, col), or "" when out of range.
func (s Sheet) At(row, col int) Cell {
	if row < 0 || row >= len(s.Grid) {
		return ""
	}
	r := s.Grid[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// NonEmptyCells counts cells holding a non-blank value.
func (s Sheet) NonEmptyCells() int {
	n := 0
	for _, row := range s.Grid {
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				n++
			}
		}
	}
	return n
}

// Header returns the first row of the grid, or nil for an empty sheet.
func (s Sheet) Header() []Cell {
	if len(s.Grid) == 0 {
		return nil
	}
	return s.Grid[0]
}

// HeaderIndex maps lower-cased trimmed header names to column positions,
// the way a CSV reader maps named columns.
func (s Sheet) HeaderIndex() map[string]int {
	idx := make(map[string]int)
	for i, h := range s.Header() {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "" {
			continue
		}
		if _, ok := idx[key]; !ok {
			idx[key] = i
		}
	}
	return idx
}
