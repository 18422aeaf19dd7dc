package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"fleet-inspection-analyzer/internal/api"
	"fleet-inspection-analyzer/internal/config"
	"fleet-inspection-analyzer/internal/db"
	"fleet-inspection-analyzer/internal/engine"
	"fleet-inspection-analyzer/internal/metrics"
	"fleet-inspection-analyzer/internal/models"
	"fleet-inspection-analyzer/internal/table"

	"github.com/spf13/cobra"
)

var (
	configPath string
	dbPath     string
	database   *db.Database
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "inspection-analyzer",
		Short: "Fleet Inspection Analyzer - Vehicle inspection form extraction and analysis",
		Long: `A CLI tool for extracting vehicle, driver, failure, and fatigue records
from daily inspection spreadsheets. Handles both free-form label-based
sheets and fixed-schema checklist exports, with SQLite storage and REST
API access.`,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database (overrides config)")

	// Add commands
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(filterCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(generateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves configuration and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	return &cfg, nil
}

// initDB initializes database connection
func initDB(cfg *config.Config) error {
	var err error
	database, err = db.New(cfg.Database.Path)
	return err
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Logging.Level == "debug" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// serveCmd starts the REST API server
func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			if port != 0 {
				cfg.Server.Port = port
			}
			if err := initDB(cfg); err != nil {
				return fmt.Errorf("database error: %w", err)
			}
			defer database.Close()

			metrics.Register()
			logger := newLogger(cfg)
			server := api.NewServer(database, logger)
			addr := fmt.Sprintf(":%d", cfg.Server.Port)

			fmt.Printf("Fleet Inspection Analyzer API Server\n")
			fmt.Printf("   Listening on http://localhost%s\n", addr)
			fmt.Printf("   Database: %s\n\n", cfg.Database.Path)
			fmt.Println("Available endpoints:")
			fmt.Println("  GET  /health")
			fmt.Println("  GET  /metrics")
			fmt.Println("  POST /api/v1/inspections")
			fmt.Println("  GET  /api/v1/vehicles")
			fmt.Println("  GET  /api/v1/drivers")
			fmt.Println("  GET  /api/v1/failures")
			fmt.Println("  GET  /api/v1/fatigue")
			fmt.Println("  GET  /api/v1/summary")
			fmt.Println("  GET  /api/v1/normalization-report")
			fmt.Println("  GET  /api/v1/diagnostics")
			fmt.Println("  GET  /api/v1/stats")
			fmt.Println("  GET  /api/v1/analytics")
			fmt.Println()

			return http.ListenAndServe(addr, server.Router())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Server port (overrides config)")
	return cmd
}

// analyzeCmd processes inspection spreadsheets from files
func analyzeCmd() *cobra.Command {
	var outputFormat string
	var save bool

	cmd := &cobra.Command{
		Use:   "analyze [file...]",
		Short: "Process inspection spreadsheet files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			if save {
				if err := initDB(cfg); err != nil {
					return fmt.Errorf("database error: %w", err)
				}
				defer database.Close()
			}

			for _, file := range args {
				fmt.Printf("Processing %s...\n", file)
				start := time.Now()

				tc, err := table.LoadFile(file)
				if err != nil {
					fmt.Printf("  Error: %v\n", err)
					continue
				}

				result, err := engine.New().Process(tc)
				if err != nil {
					fmt.Printf("  Error: %v\n", err)
					continue
				}
				elapsed := time.Since(start)

				if save {
					runID, err := database.SaveResult(result)
					if err != nil {
						fmt.Printf("  Database error: %v\n", err)
						continue
					}
					fmt.Printf("  Saved as run %s\n", runID)
				}

				switch outputFormat {
				case "json":
					enc := json.NewEncoder(os.Stdout)
					enc.SetIndent("", "  ")
					enc.Encode(result)
				default:
					printResult(result, elapsed)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json)")
	cmd.Flags().BoolVarP(&save, "save", "s", false, "Persist results to the database")
	return cmd
}

func printResult(result *models.Result, elapsed time.Duration) {
	fmt.Printf("  Strategy: %s (%v)\n", result.Strategy, elapsed)
	fmt.Printf("  Vehicles: %d | Drivers: %d | Failures: %d | Fatigue: %d\n",
		len(result.Vehicles), len(result.Drivers),
		len(result.MechanicalFailures), len(result.FatigueAssessments))

	for _, v := range result.Vehicles {
		fmt.Printf("  [%s] Vehicle %s", v.StatusColor, v.Code)
		if v.Mileage != nil {
			fmt.Printf(" | %.0f km", *v.Mileage)
		}
		if v.FuelLevel != nil {
			fmt.Printf(" | fuel %.0f%%", *v.FuelLevel)
		}
		fmt.Println()
	}
	for _, d := range result.Drivers {
		fmt.Printf("  [%s] Driver %s | last inspection: %s\n", d.StatusColor, d.Name, d.InspectionDate)
	}
	for _, f := range result.MechanicalFailures {
		fmt.Printf("  [%s] %s/%s: %s\n", f.StatusColor, f.Category, f.Severity, f.Description)
	}
	for _, a := range result.FatigueAssessments {
		fmt.Printf("  Fatigue %s (score %d): %s\n", a.Level, a.Score, a.Recommendation)
	}
	if len(result.Diagnostics) > 0 {
		fmt.Printf("  Skipped rows: %d\n", len(result.Diagnostics))
	}
	if len(result.NormalizationReport) > 0 {
		fmt.Printf("  Normalizations applied: %d\n", len(result.NormalizationReport))
	}
}

// filterCmd filters records from the latest stored run
func filterCmd() *cobra.Command {
	var status string
	var category string
	var severity string
	var fatigueLevel string
	var driver string
	var search string
	var minMileage float64
	var maxMileage float64
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter records from the latest stored run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			if err := initDB(cfg); err != nil {
				return fmt.Errorf("database error: %w", err)
			}
			defer database.Close()

			runID, err := database.LatestRunID()
			if err != nil {
				return fmt.Errorf("no stored runs: %w", err)
			}
			result, err := database.LoadResult(runID)
			if err != nil {
				return fmt.Errorf("load error: %w", err)
			}

			filtered := engine.Filter(result.Collections, models.FilterQuery{
				StatusColor:  models.StatusColor(status),
				Category:     models.FailureCategory(category),
				Severity:     models.FailureSeverity(severity),
				FatigueLevel: models.FatigueLevel(fatigueLevel),
				DriverName:   driver,
				SearchTerm:   search,
				MinMileage:   minMileage,
				MaxMileage:   maxMileage,
			})

			switch outputFormat {
			case "json":
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				enc.Encode(filtered)
			default:
				fmt.Printf("Run %s: %d vehicles, %d drivers, %d failures, %d assessments\n",
					runID, len(filtered.Vehicles), len(filtered.Drivers),
					len(filtered.MechanicalFailures), len(filtered.FatigueAssessments))
				for _, v := range filtered.Vehicles {
					fmt.Printf("  [%s] Vehicle %s\n", v.StatusColor, v.Code)
				}
				for _, d := range filtered.Drivers {
					fmt.Printf("  [%s] Driver %s\n", d.StatusColor, d.Name)
				}
				for _, f := range filtered.MechanicalFailures {
					fmt.Printf("  [%s] %s/%s: %s\n", f.StatusColor, f.Category, f.Severity, f.Description)
				}
				for _, a := range filtered.FatigueAssessments {
					fmt.Printf("  Fatigue %s (score %d) driver=%s\n", a.Level, a.Score, a.DriverName)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status color (green, yellow, orange, red)")
	cmd.Flags().StringVar(&category, "category", "", "Filter failures by category")
	cmd.Flags().StringVar(&severity, "severity", "", "Filter failures by severity")
	cmd.Flags().StringVar(&fatigueLevel, "fatigue-level", "", "Filter assessments by fatigue level")
	cmd.Flags().StringVar(&driver, "driver", "", "Filter drivers by name prefix or substring")
	cmd.Flags().StringVar(&search, "search", "", "Filter failures by description substring")
	cmd.Flags().Float64Var(&minMileage, "min-mileage", 0, "Minimum vehicle mileage")
	cmd.Flags().Float64Var(&maxMileage, "max-mileage", 0, "Maximum vehicle mileage")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json)")
	return cmd
}

// statsCmd shows database statistics
func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			if err := initDB(cfg); err != nil {
				return fmt.Errorf("database error: %w", err)
			}
			defer database.Close()

			stats, err := database.GetStats()
			if err != nil {
				return fmt.Errorf("error getting stats: %w", err)
			}

			fmt.Println("Fleet Inspection Analyzer Statistics")
			fmt.Println("====================================")
			fmt.Printf("  Processed Runs:      %v\n", stats["total_runs"])
			fmt.Printf("  Vehicles:            %v\n", stats["total_vehicles"])
			fmt.Printf("  Drivers:             %v\n", stats["total_drivers"])
			fmt.Printf("  Mechanical Failures: %v\n", stats["total_failures"])
			fmt.Printf("  Fatigue Assessments: %v\n", stats["total_assessments"])
			fmt.Printf("  Database:            %s\n", cfg.Database.Path)

			return nil
		},
	}
}

// generateCmd generates a sample inspection sheet for testing
func generateCmd() *cobra.Command {
	var layout string
	var output string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a sample inspection sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			var tc table.Collection
			switch layout {
			case "fixed":
				tc = sampleFixedSchema()
			case "label":
				tc = sampleLabelForm()
			default:
				return fmt.Errorf("unknown layout %q (use label or fixed)", layout)
			}

			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("error creating output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(tc); err != nil {
				return err
			}
			if output != "" {
				fmt.Printf("Sample %s-layout sheet written to %s\n", layout, output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&layout, "layout", "l", "label", "Sheet layout (label, fixed)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the sheet to a JSON file")
	return cmd
}

func sampleLabelForm() table.Collection {
	return table.Collection{
		{
			Name: "Inspection Form",
			Grid: table.Grid{
				{"Daily Vehicle Inspection", "", "", ""},
				{"Fecha:", "15/03/2024", "", ""},
				{"Conductor:", "jn perez", "", ""},
				{"Placa:", "abc-123", "", ""},
				{"Kilometraje km:", "185,000", "", ""},
				{"Combustible:", "40", "", ""},
				{"Hora inicio:", "8.30", "", ""},
				{"Hora fin:", "17:45", "", ""},
				{"Fallas:", "brake not working", "front axle", ""},
				{"", "", "", ""},
				{"¿Ha dormido al menos 7 horas?", "si", "", ""},
				{"¿Se siente libre de fatiga?", "si", "", ""},
				{"¿Condiciones físicas óptimas?", "si", "", ""},
				{"¿Ha consumido medicamentos o sustancias?", "no", "", ""},
			},
		},
	}
}

func sampleFixedSchema() table.Collection {
	return table.Collection{
		{
			Name: "Checklist Export",
			Grid: table.Grid{
				{"Marca temporal", "Nombre de quien realiza la inspeccion", "Placa del vehiculo", "Kilometraje", "**Luces delanteras", "**Frenos", "**Llantas", "Observaciones"},
				{"15/03/2024 8:30", "maria lopez", "XYZ-789", "92,500", "cumple", "no cumple", "cumple", "pastilla desgastada"},
				{"15/03/2024 9:10", "fco gomez", "AB1234", "210,340", "cumple", "cumple", "cumple", ""},
			},
		},
	}
}
