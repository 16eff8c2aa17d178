package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults verifies that default values are used when env vars are missing.
func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("APP_ENV")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("BASE_CURRENCY")
	os.Unsetenv("MARGIN_PERCENT")

	cfg, err := Load(".")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "EUR", cfg.BaseCurrency)
	assert.Equal(t, 15.0, cfg.MarginPercent)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "shipment.status", cfg.Kafka.StatusTopic)
}

// TestLoad_EnvOverrides verifies that environment variables override defaults.
func TestLoad_EnvOverrides(t *testing.T) {
	os.Setenv("APP_ENV", "production")
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("BASE_CURRENCY", "USD")
	os.Setenv("DB_NAME", "forwarding")
	os.Setenv("KAFKA_BROKER", "kafka:9092")
	defer func() {
		os.Unsetenv("APP_ENV")
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("BASE_CURRENCY")
		os.Unsetenv("DB_NAME")
		os.Unsetenv("KAFKA_BROKER")
	}()

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "USD", cfg.BaseCurrency)
	assert.Equal(t, "forwarding", cfg.Database.Name)
	assert.Equal(t, "kafka:9092", cfg.Kafka.Broker)
}

// TestDatabaseConfig_ConnString verifies the lib/pq connection string format.
func TestDatabaseConfig_ConnString(t *testing.T) {
	db := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "ops",
		Password: "secret",
		Name:     "freightdesk",
		SSLMode:  "require",
	}

	conn := db.ConnString()

	assert.Equal(t, "host=db.internal port=5433 user=ops password=secret dbname=freightdesk sslmode=require", conn)
}
