package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"fleet-inspection-analyzer/internal/classify"
	"fleet-inspection-analyzer/internal/models"
	"fleet-inspection-analyzer/internal/normalize"
	"fleet-inspection-analyzer/internal/table"
)

// Engine runs one processing pass over a table collection. Instances hold
// per-run state (the audit trail) and must not be shared across
// concurrent runs; the classifier and normalizer tables they read are
// constants and safe to share.
type Engine struct {
	now   func() time.Time
	newID func() string
	audit *normalize.Audit
}

// Option adjusts an Engine, mainly for tests.
type Option func(*Engine)

// WithClock fixes the time source used for days-since-inspection.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator replaces the uuid source.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) { e.newID = gen }
}

// New returns an engine ready for a single run.
func New(opts ...Option) *Engine {
	e := &Engine{
		now:   time.Now,
		newID: uuid.NewString,
		audit: normalize.NewAudit(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Process executes the whole pipeline: sheet selection, extraction with
// the detected strategy, normalization, classification, and aggregation.
// Only a missing input collection is fatal; a bad row is skipped and
// reported in the result's diagnostics.
func (e *Engine) Process(tc table.Collection) (*models.Result, error) {
	sheet, err := SelectSheet(tc)
	if err != nil {
		return nil, err
	}

	extractor := DetectExtractor(sheet)
	raw, err := extractor.Extract(sheet)
	if err != nil {
		return nil, fmt.Errorf("extract fields: %w", err)
	}

	e.audit = normalize.NewAudit()
	result := &models.Result{Strategy: raw.Strategy}

	for _, row := range raw.Rows {
		if err := e.buildRow(result, raw.Strategy, row); err != nil {
			result.Diagnostics = append(result.Diagnostics, models.RowDiagnostic{
				Row:    row.Index,
				Reason: err.Error(),
			})
		}
	}

	// Vehicle lights depend on the full failure set, so they are
	// recomputed once extraction is complete.
	if raw.Strategy == StrategyLabelScan {
		for i := range result.Vehicles {
			v := &result.Vehicles[i]
			v.StatusColor = classify.VehicleStatusColor(result.MechanicalFailures, v.FuelLevel, v.Mileage)
		}
	}

	result.NormalizationReport = e.audit.Entries()
	result.Summary = Summarize(result.Collections, len(result.Diagnostics))
	return result, nil
}

// buildRow turns one raw row into records across the four collections.
// A panic while handling the row is recovered into an error so one
// malformed entry never discards the rest of the run.
func (e *Engine) buildRow(result *models.Result, strategy string, row RawRow) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("row %d: %v", row.Index, r)
		}
	}()

	date := e.normalizeDate(row.Date)
	days := e.daysSince(date)

	failures := e.buildFailures(row, date)
	result.MechanicalFailures = append(result.MechanicalFailures, failures...)

	if vehicle, ok := e.buildVehicle(row, strategy, date, failures); ok {
		result.Vehicles = append(result.Vehicles, vehicle)
	}

	driver, assessment, ok := e.buildDriver(row, strategy, date, days)
	if ok {
		result.Drivers = append(result.Drivers, driver)
		result.FatigueAssessments = append(result.FatigueAssessments, assessment)
	}
	return nil
}

func (e *Engine) normalizeDate(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	normalized := normalize.Date(raw)
	e.audit.Record("date", raw, normalized)
	return normalized
}

// daysSince returns full days since the inspection date, or DaysUnknown
// when the date never normalized into a calendar day.
func (e *Engine) daysSince(isoDate string) int {
	t, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return models.DaysUnknown
	}
	days := int(e.now().Sub(t).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func (e *Engine) buildFailures(row RawRow, date string) []models.MechanicalFailure {
	var failures []models.MechanicalFailure
	for _, rf := range row.Failures {
		desc := normalize.FailureDescription(rf.Description)
		e.audit.Record("failure_description", rf.Description, desc)

		failures = append(failures, models.MechanicalFailure{
			ID:                  e.newID(),
			Description:         desc,
			OriginalDescription: rf.Description,
			Category:            classify.FailureCategory(desc),
			Severity:            classify.FailureSeverity(desc),
			StatusColor:         classify.FailureStatusColor(desc),
			SourceRow:           rf.Row,
			SourceColumn:        rf.Col,
			ReportDate:          date,
		})
	}
	return failures
}

func (e *Engine) buildVehicle(row RawRow, strategy, date string, failures []models.MechanicalFailure) (models.Vehicle, bool) {
	code := normalize.PlateCode(row.PlateCode)
	mileage := normalize.Number(row.MileageRaw)
	fuel := normalize.Number(row.FuelRaw)

	if code == "" && mileage == nil && fuel == nil {
		return models.Vehicle{}, false
	}
	e.audit.Record("vehicle_code", row.PlateCode, code)

	v := models.Vehicle{
		ID:             e.newID(),
		Code:           code,
		OriginalCode:   row.PlateCode,
		Mileage:        mileage,
		FuelLevel:      fuel,
		InspectionDate: date,
	}

	if strategy == StrategyFixedSchema {
		v.StatusColor = classify.VehicleStatusColorFromChecks(row.ChecksNonCompliant, row.ChecksTotal)
	} else {
		// Provisional; recomputed against the full failure set after all
		// rows are extracted.
		v.StatusColor = classify.VehicleStatusColor(failures, fuel, mileage)
	}
	return v, true
}

func (e *Engine) buildDriver(row RawRow, strategy, date string, days int) (models.Driver, models.FatigueAssessment, bool) {
	if strings.TrimSpace(row.DriverName) == "" {
		return models.Driver{}, models.FatigueAssessment{}, false
	}

	name := normalize.Name(row.DriverName)
	e.audit.Record("driver_name", row.DriverName, name)

	hours := 0.0
	if row.TimeStart != "" && row.TimeEnd != "" {
		hours = normalize.WorkHours(row.TimeStart, row.TimeEnd)
	}

	slept := normalize.YesNo(row.FatigueAnswers[0])
	symptomFree := normalize.YesNo(row.FatigueAnswers[1])
	fit := normalize.YesNo(row.FatigueAnswers[2])
	substances := normalize.YesNo(row.FatigueAnswers[3])

	score := classify.FatigueScore(slept, symptomFree, fit, substances)
	level := classify.FatigueLevelFromScore(score)

	driver := models.Driver{
		ID:                  e.newID(),
		Name:                name,
		OriginalName:        row.DriverName,
		InspectionDate:      date,
		DaysSinceInspection: days,
		HoursWorked:         hours,
	}

	// The two derivation modes are mutually exclusive per run: recency of
	// inspection for scattered forms, fatigue for structured exports.
	if strategy == StrategyFixedSchema {
		driver.StatusColor = classify.DriverStatusColorByFatigue(level)
	} else {
		driver.StatusColor = classify.DriverStatusColorByDays(days)
	}

	assessment := models.FatigueAssessment{
		ID:             e.newID(),
		DriverID:       driver.ID,
		DriverName:     name,
		HoursWorked:    hours,
		SleptSevenHrs:  slept,
		FreeOfSymptoms: symptomFree,
		FitToDrive:     fit,
		UsedSubstances: substances,
		Score:          score,
		Level:          level,
		Recommendation: classify.FatigueRecommendation(level),
		StatusColor:    classify.FatigueStatusColor(level),
	}
	return driver, assessment, true
}
