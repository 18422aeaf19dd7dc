// Package api exposes processed inspection runs over REST. Uploads run
// the extraction engine; read endpoints serve the latest stored run with
// conjunctive filters.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fleet-inspection-analyzer/internal/analytics"
	"fleet-inspection-analyzer/internal/db"
	"fleet-inspection-analyzer/internal/engine"
	"fleet-inspection-analyzer/internal/metrics"
	"fleet-inspection-analyzer/internal/models"
	"fleet-inspection-analyzer/internal/table"
)

// Server represents the API server
type Server struct {
	db     *db.Database
	router *mux.Router
	logger *slog.Logger
}

// NewServer creates a new API server
func NewServer(database *db.Database, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		db:     database,
		router: mux.NewRouter(),
		logger: logger,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	s.router.HandleFunc("/api/v1/inspections", s.handleProcessInspection).Methods("POST")
	s.router.HandleFunc("/api/v1/vehicles", s.handleListVehicles).Methods("GET")
	s.router.HandleFunc("/api/v1/drivers", s.handleListDrivers).Methods("GET")
	s.router.HandleFunc("/api/v1/failures", s.handleListFailures).Methods("GET")
	s.router.HandleFunc("/api/v1/fatigue", s.handleListFatigue).Methods("GET")
	s.router.HandleFunc("/api/v1/summary", s.handleSummary).Methods("GET")
	s.router.HandleFunc("/api/v1/normalization-report", s.handleNormalizationReport).Methods("GET")
	s.router.HandleFunc("/api/v1/diagnostics", s.handleDiagnostics).Methods("GET")
	s.router.HandleFunc("/api/v1/stats", s.handleStats).Methods("GET")
	s.router.HandleFunc("/api/v1/analytics", s.handleAnalytics).Methods("GET")

	s.router.Use(s.loggingMiddleware)
	s.router.Use(jsonMiddleware)
}

// Router returns the configured router
func (s *Server) Router() *mux.Router {
	return s.router
}

// Middleware
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/metrics" {
			w.Header().Set("Content-Type", "application/json")
		}
		next.ServeHTTP(w, r)
	})
}

// Response helpers
type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiResponse{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiResponse{Success: false, Error: message})
}

// Handlers
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleProcessInspection accepts a JSON table collection or a CSV body,
// runs the engine, and persists the result.
func (s *Server) handleProcessInspection(w http.ResponseWriter, r *http.Request) {
	var tc table.Collection
	if strings.Contains(r.Header.Get("Content-Type"), "csv") {
		var err error
		tc, err = table.ReadSeparated(r.Body, "upload", ',')
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid CSV body")
			return
		}
	} else if err := json.NewDecoder(r.Body).Decode(&tc); err != nil {
		respondError(w, http.StatusBadRequest, "invalid table collection JSON")
		return
	}

	start := time.Now()
	result, err := engine.New().Process(tc)
	metrics.ProcessingDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RunsFailedTotal.Inc()
		if errors.Is(err, engine.ErrNoTables) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	metrics.RunsProcessedTotal.WithLabelValues(result.Strategy).Inc()
	metrics.RowsSkippedTotal.Add(float64(len(result.Diagnostics)))
	for _, f := range result.MechanicalFailures {
		metrics.FailuresDetectedTotal.WithLabelValues(string(f.Severity)).Inc()
	}

	runID, err := s.db.SaveResult(result)
	if err != nil {
		s.logger.Error("save result", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to persist result")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"run_id": runID,
		"result": result,
	})
}

// latestFiltered loads the most recent run and applies query filters.
func (s *Server) latestFiltered(r *http.Request) (models.Collections, error) {
	runID, err := s.db.LatestRunID()
	if err != nil {
		return models.Collections{}, err
	}
	result, err := s.db.LoadResult(runID)
	if err != nil {
		return models.Collections{}, err
	}
	return engine.Filter(result.Collections, filterFromQuery(r)), nil
}

func filterFromQuery(r *http.Request) models.FilterQuery {
	q := models.FilterQuery{
		StatusColor:  models.StatusColor(r.URL.Query().Get("status")),
		Category:     models.FailureCategory(r.URL.Query().Get("category")),
		Severity:     models.FailureSeverity(r.URL.Query().Get("severity")),
		FatigueLevel: models.FatigueLevel(r.URL.Query().Get("fatigue_level")),
		DriverName:   r.URL.Query().Get("driver"),
		SearchTerm:   r.URL.Query().Get("search"),
	}
	if v := r.URL.Query().Get("min_mileage"); v != "" {
		q.MinMileage, _ = strconv.ParseFloat(v, 64)
	}
	if v := r.URL.Query().Get("max_mileage"); v != "" {
		q.MaxMileage, _ = strconv.ParseFloat(v, 64)
	}
	return q
}

func (s *Server) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	c, err := s.latestFiltered(r)
	if err != nil {
		respondError(w, http.StatusNotFound, "no processed runs available")
		return
	}
	respondJSON(w, http.StatusOK, c.Vehicles)
}

func (s *Server) handleListDrivers(w http.ResponseWriter, r *http.Request) {
	c, err := s.latestFiltered(r)
	if err != nil {
		respondError(w, http.StatusNotFound, "no processed runs available")
		return
	}
	respondJSON(w, http.StatusOK, c.Drivers)
}

func (s *Server) handleListFailures(w http.ResponseWriter, r *http.Request) {
	c, err := s.latestFiltered(r)
	if err != nil {
		respondError(w, http.StatusNotFound, "no processed runs available")
		return
	}
	respondJSON(w, http.StatusOK, c.MechanicalFailures)
}

func (s *Server) handleListFatigue(w http.ResponseWriter, r *http.Request) {
	c, err := s.latestFiltered(r)
	if err != nil {
		respondError(w, http.StatusNotFound, "no processed runs available")
		return
	}
	respondJSON(w, http.StatusOK, c.FatigueAssessments)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	result, err := s.loadLatest()
	if err != nil {
		respondError(w, http.StatusNotFound, "no processed runs available")
		return
	}
	respondJSON(w, http.StatusOK, result.Summary)
}

func (s *Server) handleNormalizationReport(w http.ResponseWriter, r *http.Request) {
	result, err := s.loadLatest()
	if err != nil {
		respondError(w, http.StatusNotFound, "no processed runs available")
		return
	}
	report := result.NormalizationReport
	if report == nil {
		report = []models.AuditEntry{}
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	result, err := s.loadLatest()
	if err != nil {
		respondError(w, http.StatusNotFound, "no processed runs available")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"skipped_rows": result.Summary.SkippedRows,
		"diagnostics":  result.Diagnostics,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.GetStats()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// handleAnalytics computes risk aggregates over driver history across
// every stored run, not just the latest one.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	history, err := s.db.DriverHistory()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, analytics.Analyze(history))
}

func (s *Server) loadLatest() (*models.Result, error) {
	runID, err := s.db.LatestRunID()
	if err != nil {
		return nil, err
	}
	return s.db.LoadResult(runID)
}
