package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Load reads the .env file named by PLN_ENV (or .env by default), then the
// matching .secret sidecar if it exists. Values already in the environment win.
func Load() error {
	envFile := os.Getenv("PLN_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Missing files are fine; everything has a default.
	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// AtomSpaceDriver returns where atoms are kept: memory, postgres or sqlite.
// Defaults to memory.
func AtomSpaceDriver() string {
	d := os.Getenv("ATOMSPACE_DRIVER")
	if d == "" {
		return DriverMemory
	}
	return d
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func SQLitePath() string {
	p := os.Getenv("SQLITE_PATH")
	if p == "" {
		return "pln.db"
	}
	return p
}

// RuleSetFile returns the path of the YAML rule set, or "" for built-in defaults.
func RuleSetFile() string {
	return os.Getenv("RULESET_FILE")
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}
