package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	uuid "github.com/vgarvardt/pgx-google-uuid/v5"

	"github.com/FACorreiaa/go-itinerary-health/config"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const (
	pingAttempts = 5
	pingBackoff  = 200 * time.Millisecond
)

type DatabaseConfig struct {
	ConnectionURL string
}

// NewDatabaseConfig builds a postgresql:// URL usable by both pgx and
// golang-migrate. MAXCONWAITINGTIME becomes the connect timeout in seconds.
func NewDatabaseConfig(cfg *config.Config, logger *slog.Logger) (*DatabaseConfig, error) {
	if cfg == nil || cfg.Repositories.Postgres.Host == "" {
		logger.Error("Postgres configuration is missing or invalid")
		return nil, errors.New("postgres configuration is missing or invalid")
	}
	pg := cfg.Repositories.Postgres

	query := url.Values{}
	query.Set("sslmode", "disable")
	if pg.SSLMODE != "" {
		query.Set("sslmode", pg.SSLMODE)
	}
	query.Set("timezone", "utc")
	if pg.MAXCONWAITINGTIME > 0 {
		query.Set("connect_timeout", strconv.Itoa(pg.MAXCONWAITINGTIME))
	}

	host := pg.Host
	if pg.Port != "" {
		host += ":" + pg.Port
	}
	u := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(pg.Username, pg.Password),
		Host:     host,
		Path:     pg.DB,
		RawQuery: query.Encode(),
	}
	logger.Info("Database connection URL generated", slog.String("host", u.Host), slog.String("database", pg.DB))
	return &DatabaseConfig{ConnectionURL: u.String()}, nil
}

// Init opens the pool and registers the google/uuid codec on every
// connection.
func Init(connectionURL string, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(connectionURL)
	if err != nil {
		logger.Error("Failed to parse database config", slog.Any("error", err))
		return nil, fmt.Errorf("failed to parse db config: %w", err)
	}
	poolCfg.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		uuid.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		logger.Error("Failed to create database connection pool", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create db pool: %w", err)
	}
	logger.Info("Database connection pool initialized", slog.Int("max_conns", int(poolCfg.MaxConns)))
	return pool, nil
}

// WaitForDB pings the pool with a linear backoff until it answers, the
// attempts run out or ctx is done.
func WaitForDB(ctx context.Context, pgpool *pgxpool.Pool, logger *slog.Logger) bool {
	for attempt := 1; attempt <= pingAttempts; attempt++ {
		err := pgpool.Ping(ctx)
		if err == nil {
			logger.InfoContext(ctx, "Database connection successful")
			return true
		}
		wait := time.Duration(attempt) * pingBackoff
		logger.WarnContext(ctx, "Database ping failed, retrying...",
			slog.Int("attempt", attempt),
			slog.Duration("wait", wait),
			slog.Any("error", err),
		)
		if attempt == pingAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(wait):
		}
	}
	logger.ErrorContext(ctx, "Database connection failed after retries", slog.Int("attempts", pingAttempts))
	return false
}

// RunMigrations applies the embedded migrations. A dirty schema is an error.
func RunMigrations(databaseURL string, logger *slog.Logger) error {
	if !strings.HasPrefix(databaseURL, "postgres://") && !strings.HasPrefix(databaseURL, "postgresql://") {
		return errors.New("invalid database URL scheme for migrate, ensure it starts with postgresql://")
	}

	source, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source driver: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize migrate instance: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.Warn("Failed to close migrate instance", slog.Any("source_error", srcErr), slog.Any("db_error", dbErr))
		}
	}()

	logger.Info("Running database migrations...")
	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", upErr)
	}

	version, dirty, err := m.Version()
	switch {
	case err != nil:
		logger.Warn("Could not determine migration version", slog.Any("error", err))
	case dirty:
		return fmt.Errorf("database migration state is dirty at version %d", version)
	case upErr != nil:
		logger.Info("No new migrations to apply", slog.Uint64("version", uint64(version)))
	default:
		logger.Info("Database migrations applied", slog.Uint64("version", uint64(version)))
	}
	return nil
}
