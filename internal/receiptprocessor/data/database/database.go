package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"receipt-processor/pkg/logging"
	"receipt-processor/pkg/timeutils"
)

type Config struct {
	ConnectionString   string
	RetryAttemptDelays []time.Duration
}

type PgxDatabaseFactory struct {
	cfg    Config
	logger *logging.ZapLogger
}

func NewPgxDatabaseFactory(cfg Config, logger *logging.ZapLogger) *PgxDatabaseFactory {
	return &PgxDatabaseFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// Create migrates the schema and opens a connection pool, retrying while the
// database is unreachable.
func (f *PgxDatabaseFactory) Create(ctx context.Context) (*pgxpool.Pool, error) {
	return timeutils.Retry(
		ctx,
		f.cfg.RetryAttemptDelays,
		f.connect,
		func(_ *pgxpool.Pool, err error) bool {
			if err != nil {
				f.logger.WarnCtx(ctx, "database connection attempt failed", zap.Error(err))
				return true
			}
			return false
		},
	)
}

func (f *PgxDatabaseFactory) connect(ctx context.Context) (*pgxpool.Pool, error) {
	if err := runMigrations(f.cfg.ConnectionString); err != nil {
		return nil, fmt.Errorf("failed to run DB migrations: %w", err)
	}
	pool, err := pgxpool.New(ctx, f.cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to create a connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping the database: %w", err)
	}
	return pool, nil
}

//go:embed migrations/*.sql
var migrationsDir embed.FS

func runMigrations(dsn string) error {
	d, err := iofs.New(migrationsDir, "migrations")
	if err != nil {
		return fmt.Errorf("failed to return an iofs driver: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", d, dsn)
	if err != nil {
		return fmt.Errorf("failed to get a new migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to apply migrations to the DB: %w", err)
		}
	}
	return nil
}
