package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	// DataPath points at the per-person expenditure CSV (columns: chronic
	// condition count, annual expenditure). Required.
	DataPath string

	// ScenarioPath optionally overrides the built-in model scenario with a
	// JSON file. Empty means the default scenario.
	ScenarioPath string

	// OutDir receives the report bundle (report.md, report.html, CSV exports).
	OutDir string

	LogDir string

	// Model knobs. Zero values defer to the scenario defaults.
	Cycles       int
	Trials       int
	Seed         uint64
	DiscountRate float64
	CohortSize   int

	// Workers caps the PSA worker pool. 0 means GOMAXPROCS.
	Workers int

	// OpenReport opens report.html in the default browser after a run.
	OpenReport bool
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory first
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	outDir := getEnv("CEM_OUT", "report")
	logDir := getEnv("LOGS_FOLDER", filepath.Join(outDir, "logs"))

	cfg := &AppConfig{
		DataPath:     getEnv("CEM_DATA", ""),
		ScenarioPath: getEnv("CEM_SCENARIO", ""),
		OutDir:       outDir,
		LogDir:       logDir,
		Cycles:       getEnvInt("CEM_CYCLES", 0),
		Trials:       getEnvInt("CEM_TRIALS", 0),
		Seed:         getEnvUint("CEM_SEED", 0),
		DiscountRate: getEnvFloat("CEM_DISCOUNT", 0),
		CohortSize:   getEnvInt("CEM_COHORT", 0),
		Workers:      getEnvInt("CEM_WORKERS", 0),
		OpenReport:   getEnvBool("CEM_OPEN_REPORT", false),
	}

	if cfg.DiscountRate < 0 {
		return nil, fmt.Errorf("CEM_DISCOUNT must be >= 0, got %v", cfg.DiscountRate)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-integer environment value")
	}
	return fallback
}

func getEnvUint(key string, fallback uint64) uint64 {
	if value, ok := os.LookupEnv(key); ok {
		if uintVal, err := strconv.ParseUint(value, 10, 64); err == nil {
			return uintVal
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-integer environment value")
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-numeric environment value")
	}
	return fallback
}
