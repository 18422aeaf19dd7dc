package engine

import (
	"regexp"
	"strings"

	"fleet-inspection-analyzer/internal/normalize"
	"fleet-inspection-analyzer/internal/table"
)

// Label patterns for the unstructured form layout, matched against folded
// (lower-case, accent-free) cell text. Each concept accepts the synonyms
// seen on real forms, Spanish and English.
var (
	driverLabelExpr  = regexp.MustCompile(`conductor|chofer|operador|driver`)
	vehicleLabelExpr = regexp.MustCompile(`vehiculo|vehicle|placa|patente|plate`)
	dateLabelExpr    = regexp.MustCompile(`fecha|date`)
	timeLabelExpr    = regexp.MustCompile(`hora|time`)
	mileageLabelExpr = regexp.MustCompile(`kilometraje|\bkm\b|odometro|mileage|odometer`)
	fuelLabelExpr    = regexp.MustCompile(`combustible|gasolina|diesel|fuel`)
	failureLabelExpr = regexp.MustCompile(`falla|defecto|problema|averia|dano|failure|defect|fault`)
	statusLabelExpr  = regexp.MustCompile(`estado|condicion|status`)
)

// Fatigue question patterns, one per concept in question order.
var fatigueQuestionExprs = [4]*regexp.Regexp{
	regexp.MustCompile(`dormido.*7|descansado.*7|sueno.*7|slept.*7|sleep.*7`),
	regexp.MustCompile(`sintomas.*fatiga|libre.*fatiga|somnolencia|irritabilidad|fatigue.*symptom|free.*fatigue`),
	regexp.MustCompile(`condiciones.*fisicas|apto.*conducir|estado.*fisico|fit.*drive|physical.*condition`),
	regexp.MustCompile(`medicamentos|sustancias|drogas|alcohol|medication|substance`),
}

// Cell values that mean "no issue" and are never part of a failure
// description.
var noIssueTokens = map[string]bool{
	"ok": true, "bien": true, "fine": true, "normal": true, "n/a": true,
}

// answerSearchOffsets are the relative positions checked, in order, for
// the answer near a fatigue question cell.
var answerSearchOffsets = [][2]int{{0, 1}, {0, 2}, {1, 0}, {1, 1}, {2, 0}, {0, 3}}

// LabelScanExtractor walks every cell of an unstructured form looking for
// label patterns and reads values from adjacent cells. A label matched
// twice keeps the later value. Downstream reports depend on this, so it
// is pinned by a regression test.
type LabelScanExtractor struct{}

// Name identifies the strategy in results and diagnostics.
func (e *LabelScanExtractor) Name() string { return StrategyLabelScan }

// Extract produces a single raw row covering the whole sheet.
func (e *LabelScanExtractor) Extract(s table.Sheet) (*RawFields, error) {
	row := RawRow{Index: 0}

	for i, cells := range s.Grid {
		for j, cell := range cells {
			text := normalize.FoldAccents(strings.ToLower(strings.TrimSpace(cell)))
			if text == "" {
				continue
			}

			// Fatigue question cells also contain words like "horas" or
			// "condiciones" that look like field labels; they are handled
			// by their own scan.
			if isFatigueQuestion(text) {
				continue
			}

			switch {
			case driverLabelExpr.MatchString(text):
				if v := s.At(i, j+1); strings.TrimSpace(v) != "" {
					row.DriverName = strings.TrimSpace(v)
				}
			case vehicleLabelExpr.MatchString(text):
				if v := s.At(i, j+1); strings.TrimSpace(v) != "" {
					row.PlateCode = strings.TrimSpace(v)
				}
			case failureLabelExpr.MatchString(text):
				if desc := joinFailureDescription(s, i, j); desc != "" {
					row.Failures = append(row.Failures, RawFailure{Description: desc, Row: i, Col: j})
				}
			case mileageLabelExpr.MatchString(text):
				if v := s.At(i, j+1); strings.TrimSpace(v) != "" {
					row.MileageRaw = strings.TrimSpace(v)
				}
			case fuelLabelExpr.MatchString(text):
				if v := s.At(i, j+1); strings.TrimSpace(v) != "" {
					row.FuelRaw = strings.TrimSpace(v)
				}
			case dateLabelExpr.MatchString(text):
				if v := s.At(i, j+1); strings.TrimSpace(v) != "" {
					row.Date = strings.TrimSpace(v)
				}
			case timeLabelExpr.MatchString(text):
				v := strings.TrimSpace(s.At(i, j+1))
				if v == "" {
					continue
				}
				if strings.Contains(text, "fin") || strings.Contains(text, "salida") || strings.Contains(text, "end") {
					row.TimeEnd = v
				} else {
					row.TimeStart = v
				}
			case statusLabelExpr.MatchString(text):
				if v := s.At(i, j+1); strings.TrimSpace(v) != "" {
					row.Status = strings.TrimSpace(v)
				}
			}
		}
	}

	row.FatigueAnswers = findFatigueAnswers(s)

	if row.Date == "" {
		row.Date = scanForDate(s)
	}

	return &RawFields{Strategy: StrategyLabelScan, Rows: []RawRow{row}}, nil
}

// joinFailureDescription concatenates up to the next three non-empty
// cells after the label, skipping "no issue" tokens.
func joinFailureDescription(s table.Sheet, row, labelCol int) string {
	var parts []string
	for j := labelCol + 1; j <= labelCol+3; j++ {
		v := strings.TrimSpace(s.At(row, j))
		if v == "" {
			continue
		}
		if noIssueTokens[strings.ToLower(v)] {
			continue
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, " ")
}

func isFatigueQuestion(foldedText string) bool {
	for _, expr := range fatigueQuestionExprs {
		if expr.MatchString(foldedText) {
			return true
		}
	}
	return false
}

// findFatigueAnswers locates each question by pattern and reads the
// nearest answer-looking cell at fixed offsets.
func findFatigueAnswers(s table.Sheet) [4]string {
	var answers [4]string
	for i, cells := range s.Grid {
		for j, cell := range cells {
			text := normalize.FoldAccents(strings.ToLower(strings.TrimSpace(cell)))
			if text == "" {
				continue
			}
			for q, expr := range fatigueQuestionExprs {
				if !expr.MatchString(text) {
					continue
				}
				if a := answerNear(s, i, j); a != "" {
					answers[q] = a
				}
			}
		}
	}
	return answers
}

func answerNear(s table.Sheet, row, col int) string {
	for _, off := range answerSearchOffsets {
		v := strings.TrimSpace(s.At(row+off[0], col+off[1]))
		if v == "" {
			continue
		}
		if normalize.YesNo(v) != "" {
			return v
		}
	}
	return ""
}

// scanForDate falls back to probing the top-left 10x10 block for any cell
// the date normalizer recognizes, matching how paper forms put the date
// in the heading.
func scanForDate(s table.Sheet) string {
	for i := 0; i < 10 && i < len(s.Grid); i++ {
		for j := 0; j < 10; j++ {
			v := strings.TrimSpace(s.At(i, j))
			if v == "" {
				continue
			}
			if isISODate(normalize.Date(v)) {
				return v
			}
		}
	}
	return ""
}

var isoDateExpr = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func isISODate(s string) bool {
	return isoDateExpr.MatchString(s)
}
