package models

// StatusColor is the traffic-light compliance classification used across
// all record types. Fatigue assessments additionally use orange.
type StatusColor string

const (
	StatusGreen  StatusColor = "green"
	StatusYellow StatusColor = "yellow"
	StatusOrange StatusColor = "orange"
	StatusRed    StatusColor = "red"
)

// FailureCategory groups mechanical failures by affected system.
type FailureCategory string

const (
	CategoryEngine       FailureCategory = "engine"
	CategoryBrakes       FailureCategory = "brakes"
	CategorySuspension   FailureCategory = "suspension"
	CategoryElectrical   FailureCategory = "electrical"
	CategoryTires        FailureCategory = "tires"
	CategoryBody         FailureCategory = "body"
	CategoryTransmission FailureCategory = "transmission"
	CategoryOther        FailureCategory = "other"
)

// FailureSeverity ranks how urgent a mechanical failure is.
type FailureSeverity string

const (
	SeverityCritical FailureSeverity = "critical"
	SeverityHigh     FailureSeverity = "high"
	SeverityMedium   FailureSeverity = "medium"
	SeverityLow      FailureSeverity = "low"
)

// FatigueLevel classifies a driver's fitness from the four-question score.
type FatigueLevel string

const (
	FatigueNormal   FatigueLevel = "normal"
	FatigueAlert    FatigueLevel = "alert"
	FatigueHigh     FatigueLevel = "high"
	FatigueCritical FatigueLevel = "critical"
)

// DaysUnknown is the sentinel for an unparseable inspection date. It is
// above every threshold, so an unknown date always classifies as red.
const DaysUnknown = 999

// Vehicle is one inspected vehicle row. Mileage and FuelLevel are nil when
// the form did not carry them.
type Vehicle struct {
	ID             string      `json:"id"`
	Code           string      `json:"code"`
	OriginalCode   string      `json:"original_code"`
	Mileage        *float64    `json:"mileage,omitempty"`
	FuelLevel      *float64    `json:"fuel_level,omitempty"`
	InspectionDate string      `json:"inspection_date"`
	StatusColor    StatusColor `json:"status_color"`
}

// Driver is the person who performed (or is covered by) an inspection.
type Driver struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	OriginalName        string      `json:"original_name"`
	InspectionDate      string      `json:"inspection_date"`
	DaysSinceInspection int         `json:"days_since_inspection"`
	HoursWorked         float64     `json:"hours_worked,omitempty"`
	StatusColor         StatusColor `json:"status_color"`
}

// Answer is a normalized yes/no response. Empty means unknown.
type Answer string

const (
	AnswerYes     Answer = "yes"
	AnswerNo      Answer = "no"
	AnswerUnknown Answer = ""
)

// MechanicalFailure is one reported defect with its provenance in the
// source sheet.
type MechanicalFailure struct {
	ID                  string          `json:"id"`
	Description         string          `json:"description"`
	OriginalDescription string          `json:"original_description"`
	Category            FailureCategory `json:"category"`
	Severity            FailureSeverity `json:"severity"`
	StatusColor         StatusColor     `json:"status_color"`
	SourceRow           int             `json:"source_row"`
	SourceColumn        int             `json:"source_column"`
	ReportDate          string          `json:"report_date"`
}

// FatigueAssessment scores the four driver-fitness questions. The
// substances question has inverted polarity: answering no is the good
// answer.
type FatigueAssessment struct {
	ID             string       `json:"id"`
	DriverID       string       `json:"driver_id"`
	DriverName     string       `json:"driver_name"`
	HoursWorked    float64      `json:"hours_worked"`
	SleptSevenHrs  Answer       `json:"slept_seven_hours"`
	FreeOfSymptoms Answer       `json:"free_of_symptoms"`
	FitToDrive     Answer       `json:"fit_to_drive"`
	UsedSubstances Answer       `json:"used_substances"`
	Score          int          `json:"score"`
	Level          FatigueLevel `json:"level"`
	Recommendation string       `json:"recommendation"`
	StatusColor    StatusColor  `json:"status_color"`
}

// AuditEntry records one value the normalizers changed. Observational
// only; classification never reads it.
type AuditEntry struct {
	FieldType  string `json:"field_type"`
	Original   string `json:"original_value"`
	Normalized string `json:"normalized_value"`
}

// RowDiagnostic reports a source row that was skipped instead of aborting
// the run.
type RowDiagnostic struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Collections are the four ordered output record sets of one run.
type Collections struct {
	Vehicles           []Vehicle           `json:"vehicles"`
	Drivers            []Driver            `json:"drivers"`
	MechanicalFailures []MechanicalFailure `json:"mechanical_failures"`
	FatigueAssessments []FatigueAssessment `json:"fatigue_assessments"`
}

// Summary holds the count-based aggregates over one run's collections.
type Summary struct {
	TotalVehicles       int                     `json:"total_vehicles"`
	TotalDrivers        int                     `json:"total_drivers"`
	TotalFailures       int                     `json:"total_failures"`
	VehiclesByStatus    map[StatusColor]int     `json:"vehicles_by_status"`
	DriversByStatus     map[StatusColor]int     `json:"drivers_by_status"`
	FailuresByCategory  map[FailureCategory]int `json:"failures_by_category"`
	FailuresBySeverity  map[FailureSeverity]int `json:"failures_by_severity"`
	SkippedRows         int                     `json:"skipped_rows"`
}

// Result is the complete output of one processing run.
type Result struct {
	Collections
	Summary             Summary         `json:"summary"`
	NormalizationReport []AuditEntry    `json:"normalization_report"`
	Diagnostics         []RowDiagnostic `json:"diagnostics,omitempty"`
	Strategy            string          `json:"strategy"`
}

// FilterQuery is a conjunctive set of predicates applied over in-memory
// collections. Zero values mean "no constraint".
type FilterQuery struct {
	StatusColor  StatusColor
	Category     FailureCategory
	Severity     FailureSeverity
	FatigueLevel FatigueLevel
	MinMileage   float64
	MaxMileage   float64
	DriverName   string
	SearchTerm   string
}
