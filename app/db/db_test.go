package database

import (
	"io"
	"log/slog"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-itinerary-health/config"
)

func TestNewDatabaseConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("builds a migrate compatible url", func(t *testing.T) {
		var cfg config.Config
		cfg.Repositories.Postgres.Host = "db"
		cfg.Repositories.Postgres.Port = "5432"
		cfg.Repositories.Postgres.Username = "app"
		cfg.Repositories.Postgres.Password = "p@ss"
		cfg.Repositories.Postgres.DB = "itinerary_health"

		dbc, err := NewDatabaseConfig(&cfg, logger)
		require.NoError(t, err)

		u, err := url.Parse(dbc.ConnectionURL)
		require.NoError(t, err)
		assert.Equal(t, "postgresql", u.Scheme)
		assert.Equal(t, "db:5432", u.Host)
		pw, _ := u.User.Password()
		assert.Equal(t, "p@ss", pw)
		assert.Equal(t, "disable", u.Query().Get("sslmode"))
	})

	t.Run("honours sslmode", func(t *testing.T) {
		var cfg config.Config
		cfg.Repositories.Postgres.Host = "db"
		cfg.Repositories.Postgres.SSLMODE = "require"

		dbc, err := NewDatabaseConfig(&cfg, logger)
		require.NoError(t, err)
		u, err := url.Parse(dbc.ConnectionURL)
		require.NoError(t, err)
		assert.Equal(t, "require", u.Query().Get("sslmode"))
	})

	t.Run("missing host", func(t *testing.T) {
		_, err := NewDatabaseConfig(&config.Config{}, logger)
		assert.Error(t, err)
	})
}

func TestRunMigrations_RejectsBadScheme(t *testing.T) {
	err := RunMigrations("mysql://localhost/db", slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.ErrorContains(t, err, "invalid database URL scheme")
}

func TestNewDatabaseConfig_ConnectTimeout(t *testing.T) {
	var cfg config.Config
	cfg.Repositories.Postgres.Host = "db"
	cfg.Repositories.Postgres.MAXCONWAITINGTIME = 10

	dbc, err := NewDatabaseConfig(&cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	u, err := url.Parse(dbc.ConnectionURL)
	require.NoError(t, err)
	assert.Equal(t, "db", u.Host)
	assert.Equal(t, "10", u.Query().Get("connect_timeout"))
}
