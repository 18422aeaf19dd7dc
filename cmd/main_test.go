package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fleet-inspection-analyzer/internal/engine"
	"fleet-inspection-analyzer/internal/models"
)

// resetFlags restores the package-level flag variables after a test
// mutates them.
func resetFlags(t *testing.T) {
	t.Helper()
	prevConfig, prevDB := configPath, dbPath
	t.Cleanup(func() {
		configPath, dbPath = prevConfig, prevDB
	})
	configPath, dbPath = "", ""
	t.Setenv("INSPECTION_ANALYZER_CONFIG", "")
}

func TestLoadConfigDefaults(t *testing.T) {
	resetFlags(t)

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Path != "inspections.db" {
		t.Errorf("database path = %q, want inspections.db", cfg.Database.Path)
	}
}

func TestLoadConfigDBFlagOverride(t *testing.T) {
	resetFlags(t)
	dbPath = "override.db"

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Database.Path != "override.db" {
		t.Errorf("database path = %q, want override.db", cfg.Database.Path)
	}
}

func TestLoadConfigFile(t *testing.T) {
	resetFlags(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "server:\n  port: 9090\ndatabase:\n  path: custom.db\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	configPath = path

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Path != "custom.db" {
		t.Errorf("database path = %q, want custom.db", cfg.Database.Path)
	}
}

// The generated samples must survive their own pipeline: the label form
// answers a healthy fatigue check and the fixed schema flags its failed
// brake column.
func TestGeneratedSamplesProcess(t *testing.T) {
	clock := func() time.Time {
		return time.Date(2024, 3, 18, 12, 0, 0, 0, time.UTC)
	}

	result, err := engine.New(engine.WithClock(clock)).Process(sampleLabelForm())
	if err != nil {
		t.Fatalf("Process(label sample): %v", err)
	}
	if len(result.FatigueAssessments) != 1 {
		t.Fatalf("assessments = %+v, want one", result.FatigueAssessments)
	}
	a := result.FatigueAssessments[0]
	if a.Score != 4 || a.Level != models.FatigueNormal {
		t.Errorf("fatigue = score %d level %s, want score 4 level %s", a.Score, a.Level, models.FatigueNormal)
	}
	if a.UsedSubstances != models.AnswerNo {
		t.Errorf("UsedSubstances = %q, want %q", a.UsedSubstances, models.AnswerNo)
	}

	result, err = engine.New(engine.WithClock(clock)).Process(sampleFixedSchema())
	if err != nil {
		t.Fatalf("Process(fixed sample): %v", err)
	}
	if len(result.MechanicalFailures) != 1 {
		t.Fatalf("failures = %+v, want one brake failure", result.MechanicalFailures)
	}
	if result.MechanicalFailures[0].Category != models.CategoryBrakes {
		t.Errorf("category = %s, want %s", result.MechanicalFailures[0].Category, models.CategoryBrakes)
	}
}
