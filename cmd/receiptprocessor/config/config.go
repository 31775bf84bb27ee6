package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"

	"receipt-processor/internal/receiptprocessor"
	"receipt-processor/internal/receiptprocessor/data/database"
)

const (
	serverAddressFlag         = "a"
	serverAddressEnv          = "RUN_ADDRESS"
	serverAddressDefault      = "localhost:8080"
	dbConnectionStringFlag    = "d"
	dbConnectionStringEnv     = "DATABASE_URI"
	dbConnectionStringDefault = ""
	logLevelFlag              = "l"
	logLevelEnv               = "LOG_LEVEL"
	logLevelDefault           = "info"
	envFileFlag               = "env-file"
	envFileDefault            = ".env"

	shutdownTimeout = 5 * time.Second
)

var dbRetryAttemptDelays = []time.Duration{
	time.Second,
	3 * time.Second,
	5 * time.Second,
}

type Config struct {
	Server          receiptprocessor.Config
	DB              database.Config
	LogLevel        string
	ShutdownTimeout time.Duration
}

// UseDatabase reports whether receipts are kept in PostgreSQL instead of
// process memory.
func (c *Config) UseDatabase() bool {
	return c.DB.ConnectionString != ""
}

// Load reads flags from args, then lets environment variables override them.
// Variables from an optional .env file are applied first and never replace
// variables already set in the environment.
func Load(args []string) (*Config, error) {
	flags := flag.NewFlagSet("receiptprocessor", flag.ContinueOnError)

	serverAddress := flags.String(
		serverAddressFlag,
		serverAddressDefault,
		"Server address host:port",
	)

	dbConnectionString := flags.String(
		dbConnectionStringFlag,
		dbConnectionStringDefault,
		"PostgreSQL connection string, receipts are kept in memory when empty",
	)

	logLevel := flags.String(
		logLevelFlag,
		logLevelDefault,
		"Log level: debug, info, warn or error",
	)

	envFile := flags.String(
		envFileFlag,
		envFileDefault,
		"Optional file with environment variables",
	)

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file %s: %w", *envFile, err)
	}

	if valStr, ok := os.LookupEnv(serverAddressEnv); ok {
		*serverAddress = valStr
	}

	if valStr, ok := os.LookupEnv(dbConnectionStringEnv); ok {
		*dbConnectionString = valStr
	}

	if valStr, ok := os.LookupEnv(logLevelEnv); ok {
		*logLevel = valStr
	}

	return &Config{
		Server: receiptprocessor.Config{
			ServerAddress:   *serverAddress,
			ShutdownTimeout: shutdownTimeout,
		},
		DB: database.Config{
			ConnectionString:   *dbConnectionString,
			RetryAttemptDelays: dbRetryAttemptDelays,
		},
		LogLevel:        *logLevel,
		ShutdownTimeout: shutdownTimeout,
	}, nil
}
