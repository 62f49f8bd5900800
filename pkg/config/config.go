package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (optional; empty URL disables the run archive)
	Database DatabaseConfig

	// Report pipeline
	Report ReportConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// ReportConfig holds the report pipeline settings
type ReportConfig struct {
	// Directories
	TempDir   string
	OutputDir string

	// Roster file (JSON)
	RosterPath string

	// Temp file retention
	TempTTL         time.Duration
	CleanupSchedule string // cron spec with seconds field

	// Upload limits
	MaxUploadMB     int
	UploadRateRPS   float64
	UploadRateBurst int

	// Indicator policy
	CountPauseInfraction bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8085"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Report pipeline
		Report: ReportConfig{
			TempDir:              getEnv("REPORT_TEMP_DIR", "temp_files"),
			OutputDir:            getEnv("REPORT_OUTPUT_DIR", "reportes_generados"),
			RosterPath:           getEnv("REPORT_ROSTER_PATH", "base_asesores.json"),
			TempTTL:              getEnvAsDuration("REPORT_TEMP_TTL", "48h"),
			CleanupSchedule:      getEnv("REPORT_CLEANUP_SCHEDULE", "0 0 3 * * *"),
			MaxUploadMB:          getEnvAsInt("REPORT_MAX_UPLOAD_MB", 64),
			UploadRateRPS:        getEnvAsFloat("REPORT_UPLOAD_RATE_RPS", 2),
			UploadRateBurst:      getEnvAsInt("REPORT_UPLOAD_RATE_BURST", 5),
			CountPauseInfraction: getEnvAsBool("REPORT_COUNT_PAUSE_INFRACTION", true),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Report.TempDir == "" {
		return fmt.Errorf("REPORT_TEMP_DIR must not be empty")
	}
	if c.Report.OutputDir == "" {
		return fmt.Errorf("REPORT_OUTPUT_DIR must not be empty")
	}
	if c.Report.MaxUploadMB <= 0 {
		return fmt.Errorf("REPORT_MAX_UPLOAD_MB must be positive")
	}

	return nil
}

// ArchiveEnabled reports whether the run archive is configured.
func (c *Config) ArchiveEnabled() bool {
	return c.Database.URL != ""
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
