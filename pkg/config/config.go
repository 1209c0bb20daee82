package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Warehouse DatabaseConfig
	Invoices  DatabaseConfig
	LLM       LLMConfig
	Reference ReferenceConfig
	Logging   LoggingConfig
}

// DatabaseConfig describes one logical database target.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// LLMConfig configures the text-generation backend. BaseURL may point at any
// OpenAI-compatible server, including a local one.
type LLMConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
}

// ReferenceConfig configures reference-data loading.
type ReferenceConfig struct {
	// RegionMapFile optionally overrides the built-in city-to-region table
	// with a CSV file of city,region rows.
	RegionMapFile string
	// WarehouseSampleSize bounds how many warehouse codes are embedded in
	// the refinement prompt.
	WarehouseSampleSize int
}

type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is merged first; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Warehouse: DatabaseConfig{
			Host:     getEnv("WAREHOUSE_DB_HOST", "localhost"),
			Port:     getEnvAsInt("WAREHOUSE_DB_PORT", 5432),
			User:     getEnv("WAREHOUSE_DB_USER", "postgres"),
			Password: getEnv("WAREHOUSE_DB_PASSWORD", "postgres"),
			Database: getEnv("WAREHOUSE_DB", "warehouses"),
			SSLMode:  getEnv("WAREHOUSE_DB_SSLMODE", "disable"),
		},
		Invoices: DatabaseConfig{
			Host:     getEnv("INVOICES_DB_HOST", "localhost"),
			Port:     getEnvAsInt("INVOICES_DB_PORT", 5432),
			User:     getEnv("INVOICES_DB_USER", "postgres"),
			Password: getEnv("INVOICES_DB_PASSWORD", "postgres"),
			Database: getEnv("INVOICES_DB", "invoices"),
			SSLMode:  getEnv("INVOICES_DB_SSLMODE", "disable"),
		},
		LLM: LLMConfig{
			BaseURL:     getEnv("LLM_BASE_URL", ""),
			APIKey:      getEnv("LLM_API_KEY", ""),
			Model:       getEnv("LLM_MODEL", ""),
			Temperature: getEnvAsFloat("LLM_TEMPERATURE", 0.1),
		},
		Reference: ReferenceConfig{
			RegionMapFile:       getEnv("REGION_MAP_FILE", ""),
			WarehouseSampleSize: getEnvAsInt("WAREHOUSE_SAMPLE_SIZE", 15),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	if cfg.LLM.Model == "" {
		return nil, errors.New("LLM_MODEL is required")
	}

	if cfg.LLM.APIKey == "" && cfg.LLM.BaseURL == "" {
		return nil, errors.New("LLM_API_KEY is required unless LLM_BASE_URL points at a local server")
	}

	return cfg, nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
