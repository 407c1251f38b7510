package cmd

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variables of the configuration, also passed to extensions.
const (
	EnvLedger       = "CGT_LEDGER"
	EnvLedgerFormat = "CGT_LEDGER_FORMAT"
	EnvAllowances   = "CGT_ALLOWANCES"
	EnvLogLevel     = "CGT_LOG_LEVEL"
	EnvLogFile      = "CGT_LOG_FILE"
	EnvModel        = "CGT_MODEL"
)

// Config holds the global configuration of the CLI.
type Config struct {
	Ledger       string // path to the ledger file
	LedgerFormat string // jsonl or csv, inferred from the extension when empty
	Allowances   string // optional JSONL allowances overriding the built in table
	LogLevel     string
	LogFile      string // standard error when empty
	Model        string // Gemini model of the assistant
}

// LoadConfig reads the configuration from the environment and the .env file
// of the working directory.
func LoadConfig() Config {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	return Config{
		Ledger:       getEnv(EnvLedger, "transactions.jsonl"),
		LedgerFormat: getEnv(EnvLedgerFormat, ""),
		Allowances:   getEnv(EnvAllowances, ""),
		LogLevel:     getEnv(EnvLogLevel, "warn"),
		LogFile:      getEnv(EnvLogFile, ""),
		Model:        getEnv(EnvModel, "gemini-2.5-pro"),
	}
}

// Environ returns the configuration as environment variables.
func (c Config) Environ() []string {
	return []string{
		EnvLedger + "=" + c.Ledger,
		EnvLedgerFormat + "=" + c.LedgerFormat,
		EnvAllowances + "=" + c.Allowances,
		EnvLogLevel + "=" + c.LogLevel,
		EnvLogFile + "=" + c.LogFile,
		EnvModel + "=" + c.Model,
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
