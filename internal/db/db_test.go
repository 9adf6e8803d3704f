package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmw-wellness/apiserver/config"
)

func TestPostgresURL(t *testing.T) {
	got := PostgresURL(config.DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "wellness",
		Password: "p@ss",
		DBName:   "wellness_db",
		UseSSL:   true,
	})
	assert.Equal(t, "postgres://wellness:p%40ss@db:5432/wellness_db?sslmode=require", got)
}

func TestMigrationURLSQLite(t *testing.T) {
	got := MigrationURL(config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: "/var/lib/wellness.db"})
	assert.Equal(t, "sqlite:///var/lib/wellness.db", got)
}

func TestMigrateSQLiteIsIdempotent(t *testing.T) {
	cfg := config.Config{Database: config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "wellness.db"),
	}}

	require.NoError(t, Migrate(cfg.Database))
	require.NoError(t, Migrate(cfg.Database))

	conn, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.Ping(context.Background()))

	var tables []string
	err = conn.X.Select(&tables, `SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'ra_wellness') ORDER BY name`)
	require.NoError(t, err)
	assert.Equal(t, []string{"ra_wellness", "users"}, tables)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.Config{Database: config.DatabaseConfig{Driver: "oracle"}}, nil)
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "PostgreSQL (jsonb columns)", Describe(config.DriverPostgresJSONB))
}
