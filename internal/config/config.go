package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Ledger behavior
	// RebalanceEdits makes transaction updates and deletes re-apply
	// balance deltas. Off by default for compatibility with the legacy
	// behavior, where editing a transaction does not touch balances.
	RebalanceEdits bool

	// UndoWindow is how long a delete stays pending before it commits.
	UndoWindow time.Duration
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "hiseb"),
		DBPassword: getEnv("DB_PASSWORD", "hiseb"),
		DBName:     getEnv("DB_NAME", "hiseb"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RebalanceEdits: getEnv("LEDGER_REBALANCE_EDITS", "false") == "true",
	}

	// Parse undo window duration
	windowStr := getEnv("UNDO_WINDOW", "5s")
	window, err := time.ParseDuration(windowStr)
	if err != nil {
		log.Printf("Warning: invalid UNDO_WINDOW value '%s', falling back to 5s\n", windowStr)
		window = 5 * time.Second
	}
	config.UndoWindow = window

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
