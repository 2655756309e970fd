package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment
// variables or a .env file.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	POSTGRES_HOST=localhost
//	POSTGRES_PORT=5432
//	POSTGRES_USER=postgres
//	POSTGRES_PASSWORD=secret
//	POSTGRES_DB=spimexpulse
//	POSTGRES_SSLMODE=disable
//	SPIMEX_BASE_URL=https://spimex.com/upload/reports/oil_xls/oil_xls_
//	SPIMEX_FILE_SUFFIX=162000.xls
//	SPIMEX_FETCH_TIMEOUT=3s
//	DOWNLOAD_DIR=.
type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Spimex   SpimexConfig
}

// ServerConfig holds HTTP server settings for API mode.
type ServerConfig struct {
	Port string
}

// PostgresConfig defines connection details for PostgreSQL.
// URL is the computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// SpimexConfig defines how daily bulletins are located and downloaded.
//
// A bulletin URL is BaseURL + dateKey + FileSuffix, where dateKey is the
// bulletin date formatted as YYYYMMDD. Downloaded files land in DownloadDir
// as {dateKey}_oil_data.xls until the run's cleanup removes them.
type SpimexConfig struct {
	BaseURL      string
	FileSuffix   string
	FetchTimeout time.Duration
	DownloadDir  string
}

// AppConfig is the globally accessible configuration instance,
// populated once via LoadConfig().
var AppConfig Config

// LoadConfig initializes the global AppConfig.
//
// Precedence (lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Missing required fields terminate the process via validateConfig().
func LoadConfig() {
	viper.SetDefault("SERVER_PORT", "8080")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "spimexpulse")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("SPIMEX_BASE_URL", "https://spimex.com/upload/reports/oil_xls/oil_xls_")
	viper.SetDefault("SPIMEX_FILE_SUFFIX", "162000.xls")
	viper.SetDefault("SPIMEX_FETCH_TIMEOUT", "3s")
	viper.SetDefault("DOWNLOAD_DIR", ".")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		Spimex: SpimexConfig{
			BaseURL:      viper.GetString("SPIMEX_BASE_URL"),
			FileSuffix:   viper.GetString("SPIMEX_FILE_SUFFIX"),
			FetchTimeout: viper.GetDuration("SPIMEX_FETCH_TIMEOUT"),
			DownloadDir:  viper.GetString("DOWNLOAD_DIR"),
		},
	}

	if AppConfig.Spimex.FetchTimeout <= 0 {
		AppConfig.Spimex.FetchTimeout = 3 * time.Second
	}

	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	validateConfig()
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
func validateConfig() {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.Postgres.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if AppConfig.Postgres.Port == 0 {
		missing = append(missing, "POSTGRES_PORT")
	}
	if AppConfig.Postgres.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if AppConfig.Postgres.Password == "" {
		missing = append(missing, "POSTGRES_PASSWORD")
	}
	if AppConfig.Postgres.DBName == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	if AppConfig.Spimex.BaseURL == "" {
		missing = append(missing, "SPIMEX_BASE_URL")
	}
	if AppConfig.Spimex.FileSuffix == "" {
		missing = append(missing, "SPIMEX_FILE_SUFFIX")
	}

	if len(missing) > 0 {
		log.Fatalf("missing required environment variables: %v\n", missing)
	}
}
