package engine

import (
	"strings"

	"fleet-inspection-analyzer/internal/table"
)

// sheetNameHints is the priority list checked against sheet names. The
// first hint that matches any sheet wins, and among sheets the first in
// collection order.
var sheetNameHints = []string{"inspection", "inspeccion", "hq-fo-40", "vehicle", "vehiculo", "daily", "diaria"}

// SelectSheet picks the sheet holding the inspection form: name hints in
// priority order first, then the densest sheet (most non-empty cells,
// first-encountered winning ties).
func SelectSheet(tc table.Collection) (table.Sheet, error) {
	if len(tc) == 0 {
		return table.Sheet{}, ErrNoTables
	}

	for _, hint := range sheetNameHints {
		for _, s := range tc {
			if strings.Contains(strings.ToLower(s.Name), hint) {
				return s, nil
			}
		}
	}

	best := tc[0]
	bestCount := best.NonEmptyCells()
	for _, s := range tc[1:] {
		if n := s.NonEmptyCells(); n > bestCount {
			best, bestCount = s, n
		}
	}
	return best, nil
}
