package engine

import (
	"strings"

	"fleet-inspection-analyzer/internal/models"
	"fleet-inspection-analyzer/internal/normalize"
	"fleet-inspection-analyzer/internal/table"
)

// criticalCheckMarker distinguishes critical-check columns in structured
// exports: the form generator prefixes their headers with it.
const criticalCheckMarker = "**"

// Column synonyms for the structured export layout.
var (
	driverColumnHints  = []string{"nombre de quien realiza", "conductor", "driver", "inspector"}
	plateColumnHints   = []string{"placa", "plate"}
	mileageColumnHints = []string{"kilometraje", "mileage", "odometer", "odometro"}
	stampColumnHints   = []string{"marca temporal", "timestamp", "fecha", "date"}
	remarkColumnHints  = []string{"observaciones", "observations", "remarks"}
)

// FixedSchemaExtractor reads named columns directly from a structured
// export: one inspection per data row, critical checks in marked columns.
type FixedSchemaExtractor struct{}

// Name identifies the strategy in results and diagnostics.
func (e *FixedSchemaExtractor) Name() string { return StrategyFixedSchema }

type schemaColumns struct {
	driver, plate, mileage, stamp, remark int
	fatigue                               [4]int
	checks                                []checkColumn
}

type checkColumn struct {
	index int
	label string
}

// Extract maps the header once, then walks every data row.
func (e *FixedSchemaExtractor) Extract(s table.Sheet) (*RawFields, error) {
	cols := mapColumns(s.Header())

	fields := &RawFields{Strategy: StrategyFixedSchema}
	for i := 1; i < len(s.Grid); i++ {
		row := RawRow{
			Index:       i,
			ChecksTotal: len(cols.checks),
		}

		row.DriverName = cellAt(s, i, cols.driver)
		row.PlateCode = cellAt(s, i, cols.plate)
		row.MileageRaw = cellAt(s, i, cols.mileage)

		if stamp := cellAt(s, i, cols.stamp); stamp != "" {
			row.Date, row.TimeStart = splitTimestamp(stamp)
		}

		for q, c := range cols.fatigue {
			row.FatigueAnswers[q] = cellAt(s, i, c)
		}

		remark := cellAt(s, i, cols.remark)
		for _, chk := range cols.checks {
			v := cellAt(s, i, chk.index)
			if !indicatesNonCompliance(v) {
				continue
			}
			row.ChecksNonCompliant++
			desc := chk.label
			if remark != "" {
				desc += " " + remark
			}
			row.Failures = append(row.Failures, RawFailure{Description: desc, Row: i, Col: chk.index})
		}

		if rowIsEmpty(row) {
			continue
		}
		fields.Rows = append(fields.Rows, row)
	}

	return fields, nil
}

func mapColumns(header []table.Cell) schemaColumns {
	cols := schemaColumns{driver: -1, plate: -1, mileage: -1, stamp: -1, remark: -1}
	for q := range cols.fatigue {
		cols.fatigue[q] = -1
	}

	for i, h := range header {
		key := normalize.FoldAccents(strings.ToLower(strings.TrimSpace(h)))
		if key == "" {
			continue
		}

		if strings.HasPrefix(key, criticalCheckMarker) {
			label := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(h), criticalCheckMarker))
			cols.checks = append(cols.checks, checkColumn{index: i, label: label})
			continue
		}

		switch {
		case cols.driver < 0 && matchesAny(key, driverColumnHints):
			cols.driver = i
		case cols.plate < 0 && matchesAny(key, plateColumnHints):
			cols.plate = i
		case cols.mileage < 0 && matchesAny(key, mileageColumnHints):
			cols.mileage = i
		case cols.stamp < 0 && matchesAny(key, stampColumnHints):
			cols.stamp = i
		case cols.remark < 0 && matchesAny(key, remarkColumnHints):
			cols.remark = i
		default:
			for q, expr := range fatigueQuestionExprs {
				if cols.fatigue[q] < 0 && expr.MatchString(key) {
					cols.fatigue[q] = i
					break
				}
			}
		}
	}
	return cols
}

func matchesAny(key string, hints []string) bool {
	for _, h := range hints {
		if strings.Contains(key, h) {
			return true
		}
	}
	return false
}

func cellAt(s table.Sheet, row, col int) string {
	if col < 0 {
		return ""
	}
	return strings.TrimSpace(s.At(row, col))
}

// splitTimestamp separates "9/8/2025 14:30" style stamps into their date
// and time parts.
func splitTimestamp(stamp string) (date, clock string) {
	parts := strings.Fields(stamp)
	if len(parts) == 0 {
		return "", ""
	}
	date = parts[0]
	if len(parts) > 1 {
		clock = parts[1]
	}
	return date, clock
}

// indicatesNonCompliance is true for explicit "does not comply" marks.
// Blank and unknown cells count as not assessed rather than failing.
func indicatesNonCompliance(v string) bool {
	if v == "" {
		return false
	}
	return normalize.YesNo(v) == models.AnswerNo
}

func rowIsEmpty(r RawRow) bool {
	return r.DriverName == "" && r.PlateCode == "" && r.MileageRaw == "" &&
		r.Date == "" && len(r.Failures) == 0
}
