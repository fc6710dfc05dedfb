package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "healthtrack", cfg.App.Name)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "healthTrack.db", cfg.Database.Path)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.True(t, cfg.Records.ValidateOnUpdate)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoad_PortFallsBackToPORT(t *testing.T) {
	t.Setenv("PORT", "4100")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4100, cfg.Server.Port)

	t.Setenv("SERVER_PORT", "4200")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 4200, cfg.Server.Port)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "POSTGRES")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_SLOW_QUERY_THRESHOLD", "1s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("RECORDS_VALIDATE_ON_UPDATE", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, time.Second, cfg.Database.SlowQueryThreshold)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.Records.ValidateOnUpdate)
	assert.Contains(t, cfg.Database.DSN(), "dbname=healthtrack")
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("RATE_LIMIT_RPS", "fast")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, float64(100), cfg.RateLimit.RequestsPerSecond)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_SSLMODE", "disable")
	t.Setenv("SERVER_PORT", "70000")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD is required")
	assert.Contains(t, err.Error(), "DB_SSLMODE=disable")
	assert.Contains(t, err.Error(), "SERVER_PORT 70000")
}

func TestValidate_UnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `DB_DRIVER "mysql" is not supported`)
}

func TestValidate_EmptySQLitePath(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{Driver: DriverSQLite, Path: "  "},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH is required")
}

func TestDatabaseConfig_SQLiteDSN(t *testing.T) {
	d := DatabaseConfig{Driver: DriverSQLite, Path: "/tmp/x.db"}
	assert.Equal(t, "/tmp/x.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", d.DSN())
}
