package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"fleet-inspection-analyzer/internal/analytics"
	"fleet-inspection-analyzer/internal/db"
	"fleet-inspection-analyzer/internal/models"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	database, err := db.New(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewServer(database, nil)
}

func doRequest(t *testing.T, s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

const labelFormJSON = `[{
	"name": "Inspection Form",
	"grid": [
		["Fecha:", "15/03/2024"],
		["Conductor:", "jn perez"],
		["Placa:", "abc-123"],
		["Kilometraje km:", "185,000"],
		["Fallas:", "brake not working"]
	]
}]`

func TestHealth(t *testing.T) {
	rec := doRequest(t, newTestServer(t), "GET", "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestProcessInspection(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, "POST", "/api/v1/inspections", []byte(labelFormJSON))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			RunID  string        `json:"run_id"`
			Result models.Result `json:"result"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Data.RunID == "" {
		t.Fatalf("unexpected envelope: %s", rec.Body.String())
	}
	if resp.Data.Result.Strategy != "label-scan" {
		t.Errorf("strategy = %q", resp.Data.Result.Strategy)
	}
	if len(resp.Data.Result.Vehicles) != 1 || resp.Data.Result.Vehicles[0].Code != "ABC-123" {
		t.Errorf("vehicles = %+v", resp.Data.Result.Vehicles)
	}
}

func TestProcessInspectionCSV(t *testing.T) {
	s := newTestServer(t)

	body := "Conductor:,jn perez\nPlaca:,abc-123\n"
	req := httptest.NewRequest("POST", "/api/v1/inspections", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			Result models.Result `json:"result"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data.Result.Drivers) != 1 || resp.Data.Result.Drivers[0].Name != "Juan Perez" {
		t.Errorf("drivers = %+v", resp.Data.Result.Drivers)
	}
}

func TestProcessInspectionBadBody(t *testing.T) {
	rec := doRequest(t, newTestServer(t), "POST", "/api/v1/inspections", []byte("{not json"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestProcessInspectionEmptyCollection(t *testing.T) {
	rec := doRequest(t, newTestServer(t), "POST", "/api/v1/inspections", []byte("[]"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestListEndpoints(t *testing.T) {
	s := newTestServer(t)

	// Nothing stored yet.
	if rec := doRequest(t, s, "GET", "/api/v1/vehicles", nil); rec.Code != http.StatusNotFound {
		t.Errorf("vehicles before upload: status = %d, want 404", rec.Code)
	}

	if rec := doRequest(t, s, "POST", "/api/v1/inspections", []byte(labelFormJSON)); rec.Code != http.StatusCreated {
		t.Fatalf("upload failed: %d %s", rec.Code, rec.Body.String())
	}

	var vehicles struct {
		Data []models.Vehicle `json:"data"`
	}
	rec := doRequest(t, s, "GET", "/api/v1/vehicles", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("vehicles: status = %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &vehicles); err != nil {
		t.Fatalf("decode vehicles: %v", err)
	}
	if len(vehicles.Data) != 1 || vehicles.Data[0].Code != "ABC-123" {
		t.Errorf("vehicles = %+v", vehicles.Data)
	}

	// Status filter that matches nothing.
	rec = doRequest(t, s, "GET", "/api/v1/vehicles?status=green", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("filtered vehicles: status = %d", rec.Code)
	}
	vehicles.Data = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &vehicles); err != nil {
		t.Fatalf("decode filtered vehicles: %v", err)
	}
	if len(vehicles.Data) != 0 {
		t.Errorf("green vehicles = %+v, want none", vehicles.Data)
	}

	var failures struct {
		Data []models.MechanicalFailure `json:"data"`
	}
	rec = doRequest(t, s, "GET", "/api/v1/failures?severity=critical", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &failures); err != nil {
		t.Fatalf("decode failures: %v", err)
	}
	if len(failures.Data) != 1 || failures.Data[0].Category != models.CategoryBrakes {
		t.Errorf("failures = %+v", failures.Data)
	}

	var summary struct {
		Data models.Summary `json:"data"`
	}
	rec = doRequest(t, s, "GET", "/api/v1/summary", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Data.TotalVehicles != 1 || summary.Data.TotalFailures != 1 {
		t.Errorf("summary = %+v", summary.Data)
	}

	var report struct {
		Data []models.AuditEntry `json:"data"`
	}
	rec = doRequest(t, s, "GET", "/api/v1/normalization-report", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if len(report.Data) == 0 {
		t.Error("normalization report is empty, want recorded changes")
	}

	rec = doRequest(t, s, "GET", "/api/v1/stats", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("stats: status = %d", rec.Code)
	}
}

func TestAnalyticsEndpoint(t *testing.T) {
	s := newTestServer(t)

	// Works with nothing stored: empty history, empty report.
	rec := doRequest(t, s, "GET", "/api/v1/analytics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("analytics before upload: status = %d", rec.Code)
	}

	if rec := doRequest(t, s, "POST", "/api/v1/inspections", []byte(labelFormJSON)); rec.Code != http.StatusCreated {
		t.Fatalf("upload failed: %d %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data analytics.Report `json:"data"`
	}
	rec = doRequest(t, s, "GET", "/api/v1/analytics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("analytics: status = %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode analytics: %v", err)
	}

	// The form's only inspection is long overdue, so its driver is red and
	// the single-outcome history reads as maximum risk.
	if len(resp.Data.HighRiskDrivers) != 1 {
		t.Fatalf("high-risk drivers = %+v, want one", resp.Data.HighRiskDrivers)
	}
	d := resp.Data.HighRiskDrivers[0]
	if d.DriverName != "Juan Perez" || d.RiskLevel != analytics.RiskHigh {
		t.Errorf("driver = %+v, want Juan Perez at high risk", d)
	}
	if resp.Data.RecentFailureRate != 100 {
		t.Errorf("RecentFailureRate = %v, want 100", resp.Data.RecentFailureRate)
	}
}
