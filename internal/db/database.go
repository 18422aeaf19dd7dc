// Package db persists processed inspection runs in SQLite. The engine
// itself never touches this layer; callers hand it a finished result.
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fleet-inspection-analyzer/internal/analytics"
	"fleet-inspection-analyzer/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

// Database wraps the SQLite connection
type Database struct {
	conn *sql.DB
}

// New creates a new database connection
func New(dbPath string) (*Database, error) {
	// Enable WAL mode and other optimizations via connection string
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=10000", dbPath)

	conn, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single writer
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	db := &Database{conn: conn}

	if err := db.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return db, nil
}

// initialize creates tables and indexes
func (db *Database) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		strategy TEXT NOT NULL,
		skipped_rows INTEGER NOT NULL,
		summary_json TEXT NOT NULL,
		diagnostics_json TEXT NOT NULL DEFAULT 'null',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS vehicles (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		code TEXT,
		original_code TEXT,
		mileage REAL,
		fuel_level REAL,
		inspection_date TEXT,
		status_color TEXT NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE TABLE IF NOT EXISTS drivers (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		name TEXT,
		original_name TEXT,
		inspection_date TEXT,
		days_since_inspection INTEGER,
		hours_worked REAL,
		status_color TEXT NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE TABLE IF NOT EXISTS mechanical_failures (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		description TEXT,
		original_description TEXT,
		category TEXT NOT NULL,
		severity TEXT NOT NULL,
		status_color TEXT NOT NULL,
		source_row INTEGER,
		source_column INTEGER,
		report_date TEXT,
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE TABLE IF NOT EXISTS fatigue_assessments (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		driver_id TEXT,
		driver_name TEXT,
		hours_worked REAL,
		slept_seven_hours TEXT,
		free_of_symptoms TEXT,
		fit_to_drive TEXT,
		used_substances TEXT,
		score INTEGER NOT NULL,
		level TEXT NOT NULL,
		recommendation TEXT,
		status_color TEXT NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE TABLE IF NOT EXISTS normalization_audit (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		field_type TEXT NOT NULL,
		original_value TEXT,
		normalized_value TEXT,
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_vehicles_run ON vehicles(run_id);
	CREATE INDEX IF NOT EXISTS idx_vehicles_status ON vehicles(status_color);
	CREATE INDEX IF NOT EXISTS idx_drivers_run ON drivers(run_id);
	CREATE INDEX IF NOT EXISTS idx_failures_run ON mechanical_failures(run_id);
	CREATE INDEX IF NOT EXISTS idx_failures_category ON mechanical_failures(category);
	CREATE INDEX IF NOT EXISTS idx_failures_severity ON mechanical_failures(severity);
	CREATE INDEX IF NOT EXISTS idx_fatigue_run ON fatigue_assessments(run_id);
	CREATE INDEX IF NOT EXISTS idx_audit_run ON normalization_audit(run_id);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.conn.Close()
}

// SaveResult stores a complete processing run in one transaction and
// returns the generated run id.
func (db *Database) SaveResult(result *models.Result) (string, error) {
	runID := uuid.NewString()

	tx, err := db.conn.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	summaryJSON, err := json.Marshal(result.Summary)
	if err != nil {
		return "", fmt.Errorf("encode summary: %w", err)
	}
	diagnosticsJSON, err := json.Marshal(result.Diagnostics)
	if err != nil {
		return "", fmt.Errorf("encode diagnostics: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO runs (id, strategy, skipped_rows, summary_json, diagnostics_json) VALUES (?, ?, ?, ?, ?)`,
		runID, result.Strategy, len(result.Diagnostics), string(summaryJSON), string(diagnosticsJSON),
	)
	if err != nil {
		return "", err
	}

	vStmt, err := tx.Prepare(`
		INSERT INTO vehicles
		(id, run_id, code, original_code, mileage, fuel_level, inspection_date, status_color)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", err
	}
	defer vStmt.Close()

	for _, v := range result.Vehicles {
		if _, err := vStmt.Exec(v.ID, runID, v.Code, v.OriginalCode,
			nullFloat(v.Mileage), nullFloat(v.FuelLevel), v.InspectionDate, v.StatusColor); err != nil {
			return "", err
		}
	}

	dStmt, err := tx.Prepare(`
		INSERT INTO drivers
		(id, run_id, name, original_name, inspection_date, days_since_inspection, hours_worked, status_color)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", err
	}
	defer dStmt.Close()

	for _, d := range result.Drivers {
		if _, err := dStmt.Exec(d.ID, runID, d.Name, d.OriginalName,
			d.InspectionDate, d.DaysSinceInspection, d.HoursWorked, d.StatusColor); err != nil {
			return "", err
		}
	}

	fStmt, err := tx.Prepare(`
		INSERT INTO mechanical_failures
		(id, run_id, description, original_description, category, severity, status_color,
		 source_row, source_column, report_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", err
	}
	defer fStmt.Close()

	for _, f := range result.MechanicalFailures {
		if _, err := fStmt.Exec(f.ID, runID, f.Description, f.OriginalDescription,
			f.Category, f.Severity, f.StatusColor, f.SourceRow, f.SourceColumn, f.ReportDate); err != nil {
			return "", err
		}
	}

	aStmt, err := tx.Prepare(`
		INSERT INTO fatigue_assessments
		(id, run_id, driver_id, driver_name, hours_worked, slept_seven_hours, free_of_symptoms,
		 fit_to_drive, used_substances, score, level, recommendation, status_color)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", err
	}
	defer aStmt.Close()

	for _, a := range result.FatigueAssessments {
		if _, err := aStmt.Exec(a.ID, runID, a.DriverID, a.DriverName, a.HoursWorked,
			a.SleptSevenHrs, a.FreeOfSymptoms, a.FitToDrive, a.UsedSubstances,
			a.Score, a.Level, a.Recommendation, a.StatusColor); err != nil {
			return "", err
		}
	}

	nStmt, err := tx.Prepare(`
		INSERT INTO normalization_audit (run_id, field_type, original_value, normalized_value)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return "", err
	}
	defer nStmt.Close()

	for _, entry := range result.NormalizationReport {
		if _, err := nStmt.Exec(runID, entry.FieldType, entry.Original, entry.Normalized); err != nil {
			return "", err
		}
	}

	return runID, tx.Commit()
}

// LatestRunID returns the most recently stored run.
func (db *Database) LatestRunID() (string, error) {
	var id string
	err := db.conn.QueryRow(`SELECT id FROM runs ORDER BY created_at DESC, id DESC LIMIT 1`).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// LoadResult reassembles a stored run's collections and summary.
func (db *Database) LoadResult(runID string) (*models.Result, error) {
	result := &models.Result{}

	var summaryJSON, diagnosticsJSON string
	err := db.conn.QueryRow(
		`SELECT strategy, summary_json, diagnostics_json FROM runs WHERE id = ?`, runID,
	).Scan(&result.Strategy, &summaryJSON, &diagnosticsJSON)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(summaryJSON), &result.Summary); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	if err := json.Unmarshal([]byte(diagnosticsJSON), &result.Diagnostics); err != nil {
		return nil, fmt.Errorf("decode diagnostics: %w", err)
	}

	if result.Vehicles, err = db.loadVehicles(runID); err != nil {
		return nil, err
	}
	if result.Drivers, err = db.loadDrivers(runID); err != nil {
		return nil, err
	}
	if result.MechanicalFailures, err = db.loadFailures(runID); err != nil {
		return nil, err
	}
	if result.FatigueAssessments, err = db.loadAssessments(runID); err != nil {
		return nil, err
	}
	if result.NormalizationReport, err = db.loadAudit(runID); err != nil {
		return nil, err
	}
	return result, nil
}

func (db *Database) loadVehicles(runID string) ([]models.Vehicle, error) {
	rows, err := db.conn.Query(`
		SELECT id, code, original_code, mileage, fuel_level, inspection_date, status_color
		FROM vehicles WHERE run_id = ? ORDER BY rowid
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	for rows.Next() {
		var v models.Vehicle
		var mileage, fuel sql.NullFloat64
		if err := rows.Scan(&v.ID, &v.Code, &v.OriginalCode, &mileage, &fuel,
			&v.InspectionDate, &v.StatusColor); err != nil {
			return nil, err
		}
		if mileage.Valid {
			v.Mileage = &mileage.Float64
		}
		if fuel.Valid {
			v.FuelLevel = &fuel.Float64
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (db *Database) loadDrivers(runID string) ([]models.Driver, error) {
	rows, err := db.conn.Query(`
		SELECT id, name, original_name, inspection_date, days_since_inspection, hours_worked, status_color
		FROM drivers WHERE run_id = ? ORDER BY rowid
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []models.Driver
	for rows.Next() {
		var d models.Driver
		if err := rows.Scan(&d.ID, &d.Name, &d.OriginalName, &d.InspectionDate,
			&d.DaysSinceInspection, &d.HoursWorked, &d.StatusColor); err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

func (db *Database) loadFailures(runID string) ([]models.MechanicalFailure, error) {
	rows, err := db.conn.Query(`
		SELECT id, description, original_description, category, severity, status_color,
		       source_row, source_column, report_date
		FROM mechanical_failures WHERE run_id = ? ORDER BY rowid
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var failures []models.MechanicalFailure
	for rows.Next() {
		var f models.MechanicalFailure
		if err := rows.Scan(&f.ID, &f.Description, &f.OriginalDescription, &f.Category,
			&f.Severity, &f.StatusColor, &f.SourceRow, &f.SourceColumn, &f.ReportDate); err != nil {
			return nil, err
		}
		failures = append(failures, f)
	}
	return failures, rows.Err()
}

func (db *Database) loadAssessments(runID string) ([]models.FatigueAssessment, error) {
	rows, err := db.conn.Query(`
		SELECT id, driver_id, driver_name, hours_worked, slept_seven_hours, free_of_symptoms,
		       fit_to_drive, used_substances, score, level, recommendation, status_color
		FROM fatigue_assessments WHERE run_id = ? ORDER BY rowid
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assessments []models.FatigueAssessment
	for rows.Next() {
		var a models.FatigueAssessment
		if err := rows.Scan(&a.ID, &a.DriverID, &a.DriverName, &a.HoursWorked,
			&a.SleptSevenHrs, &a.FreeOfSymptoms, &a.FitToDrive, &a.UsedSubstances,
			&a.Score, &a.Level, &a.Recommendation, &a.StatusColor); err != nil {
			return nil, err
		}
		assessments = append(assessments, a)
	}
	return assessments, rows.Err()
}

func (db *Database) loadAudit(runID string) ([]models.AuditEntry, error) {
	rows, err := db.conn.Query(`
		SELECT field_type, original_value, normalized_value
		FROM normalization_audit WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.FieldType, &e.Original, &e.Normalized); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DriverHistory returns every stored driver row across all runs as an
// analytics outcome, oldest inspection first. A red light counts as a
// failed inspection.
func (db *Database) DriverHistory() ([]analytics.Outcome, error) {
	rows, err := db.conn.Query(`
		SELECT name, inspection_date, status_color
		FROM drivers ORDER BY inspection_date, rowid
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []analytics.Outcome
	for rows.Next() {
		var name, date, color string
		if err := rows.Scan(&name, &date, &color); err != nil {
			return nil, err
		}
		history = append(history, analytics.Outcome{
			DriverName: name,
			Date:       date,
			Failed:     color == string(models.StatusRed),
		})
	}
	return history, rows.Err()
}

// GetStats returns database statistics
func (db *Database) GetStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var runs int64
	db.conn.QueryRow("SELECT COUNT(*) FROM runs").Scan(&runs)
	stats["total_runs"] = runs

	var vehicles int64
	db.conn.QueryRow("SELECT COUNT(*) FROM vehicles").Scan(&vehicles)
	stats["total_vehicles"] = vehicles

	var drivers int64
	db.conn.QueryRow("SELECT COUNT(*) FROM drivers").Scan(&drivers)
	stats["total_drivers"] = drivers

	var failures int64
	db.conn.QueryRow("SELECT COUNT(*) FROM mechanical_failures").Scan(&failures)
	stats["total_failures"] = failures

	var assessments int64
	db.conn.QueryRow("SELECT COUNT(*) FROM fatigue_assessments").Scan(&assessments)
	stats["total_assessments"] = assessments

	var critical int64
	db.conn.QueryRow("SELECT COUNT(*) FROM mechanical_failures WHERE severity = 'critical'").Scan(&critical)
	stats["critical_failures"] = critical

	return stats, nil
}

func nullFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
