package config

import (
	"os"
	"path/filepath"
	"strconv"

	"scobro-sync/internal/clarizen"
	"scobro-sync/internal/jira"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration. It is an explicit
// value handed to each component; nothing here is process-global.
type AppConfig struct {
	Clarizen clarizen.Config
	Jira     jira.Config

	DataPath   string
	DBPath     string
	ListenAddr string

	// Chunking limits for identifier-filtered queries.
	BatchSize    int
	QueryTextCap int
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// Try the executable's directory first, then the working directory.
	exeDir := ""
	if exePath, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables")
	}

	dataPath := getEnv("DATA_PATH", "")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	if err := os.MkdirAll(dataPath, 0755); err != nil {
		log.Warn().Err(err).Str("path", dataPath).Msg("Failed to create data directory")
	}

	cfg := &AppConfig{
		Clarizen: clarizen.Config{
			BaseURL:  getEnv("CLARIZEN_URL", ""),
			Username: getEnv("CLARIZEN_USERNAME", ""),
			Password: getEnv("CLARIZEN_PASSWORD", ""),
		},
		Jira: jira.Config{
			BaseURL:  getEnv("JIRA_URL", ""),
			Email:    getEnv("JIRA_EMAIL", ""),
			APIToken: getEnv("JIRA_API_TOKEN", ""),
		},
		DataPath:     dataPath,
		DBPath:       getEnv("DB_PATH", filepath.Join(dataPath, "logbook.db")),
		ListenAddr:   getEnv("LISTEN_ADDR", "127.0.0.1:7411"),
		BatchSize:    getEnvInt("QUERY_BATCH_SIZE", 20),
		QueryTextCap: getEnvInt("QUERY_TEXT_CAP", 2000),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
