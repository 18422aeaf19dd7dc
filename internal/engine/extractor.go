package engine

import (
	"strings"

	"fleet-inspection-analyzer/internal/table"
)

// Strategy names reported in results and diagnostics.
const (
	StrategyLabelScan   = "label-scan"
	StrategyFixedSchema = "fixed-schema"
)

// RawFailure is one pre-normalization failure description with its
// provenance in the source sheet.
type RawFailure struct {
	Description string
	Row, Col    int
}

// RawRow carries the pre-normalization field values for one logical
// inspection entry. Label-scan produces a single row per sheet;
// fixed-schema produces one per data row.
type RawRow struct {
	Index      int
	DriverName string
	PlateCode  string
	Date       string
	TimeStart  string
	TimeEnd    string
	MileageRaw string
	FuelRaw    string
	Status     string
	Failures   []RawFailure

	// Fatigue answers in question order: slept >=7h, free of symptoms,
	// fit to drive, used impairing substances.
	FatigueAnswers [4]string

	// Critical-check tally, fixed-schema only.
	ChecksTotal        int
	ChecksNonCompliant int
}

// RawFields is the strategy-independent extraction output consumed by the
// record builder.
type RawFields struct {
	Strategy string
	Rows     []RawRow
}

// Extractor is the single capability interface both strategies sit
// behind, so the record builder never knows which one ran.
type Extractor interface {
	Name() string
	Extract(s table.Sheet) (*RawFields, error)
}

// Header hints marking a sheet as a structured export. A lone "plate"
// cell can also be a label-scan label, so fixed-schema needs either a
// marked critical-check column or both a plate and a timestamp header.
var (
	plateHeaderHints     = []string{"placa", "plate"}
	timestampHeaderHints = []string{"marca temporal", "timestamp"}
)

// DetectExtractor chooses the strategy for this run from the table shape.
// The choice is made once and never mixed mid-run.
func DetectExtractor(s table.Sheet) Extractor {
	hasPlate, hasTimestamp := false, false
	for _, h := range s.Header() {
		key := strings.ToLower(strings.TrimSpace(h))
		if strings.HasPrefix(key, criticalCheckMarker) {
			return &FixedSchemaExtractor{}
		}
		for _, hint := range plateHeaderHints {
			if strings.Contains(key, hint) {
				hasPlate = true
			}
		}
		for _, hint := range timestampHeaderHints {
			if strings.Contains(key, hint) {
				hasTimestamp = true
			}
		}
	}
	if hasPlate && hasTimestamp {
		return &FixedSchemaExtractor{}
	}
	return &LabelScanExtractor{}
}
