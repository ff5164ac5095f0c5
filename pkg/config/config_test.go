package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockmaster/pkg/config"
)

// clearEnv vacía las variables conocidas; Viper ignora los valores vacíos.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "APP_NAME", "LOG_LEVEL", "DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER",
		"DB_PASSWORD", "DB_NAME", "DB_SSLMODE", "DB_MAX_CONNS", "DB_MIN_CONNS",
		"RABBITMQ_URL", "RABBITMQ_EXCHANGE", "RABBITMQ_RETRY_COUNT", "SEED_DEMO_EMAIL", "SEED_DEMO_PASSWORD",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "stockmaster", cfg.App.Name)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.Equal(t, 2, cfg.DB.MinConns)
	assert.False(t, cfg.RabbitMQ.Enabled())
	assert.Equal(t, "stockmaster.events", cfg.RabbitMQ.Exchange)
	assert.Equal(t, "demo@stockmaster.com", cfg.Seed.DemoEmail)
	assert.Equal(t, "postgres://postgres:@localhost:5432/stockmaster?sslmode=disable", cfg.DB.ConnectionString())
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "p@ss:word")
	t.Setenv("DB_MAX_CONNS", "10")
	t.Setenv("DB_MIN_CONNS", "abc")
	t.Setenv("RABBITMQ_URL", "amqp://guest:guest@mq:5672/")
	t.Setenv("RABBITMQ_RETRY_COUNT", "5")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.DB.MaxConns)
	assert.Equal(t, 2, cfg.DB.MinConns, "un entero inválido cae al default")
	assert.True(t, cfg.RabbitMQ.Enabled())
	assert.Equal(t, 5, cfg.RabbitMQ.RetryCount)
	assert.Contains(t, cfg.DB.DSN(), "p%40ss%3Aword@db.internal:5432", "la contraseña se codifica en la URL")
}

func TestLoad_DatabaseURLWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgresql://u:p@remote:6543/inv?sslmode=require")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "postgresql://u:p@remote:6543/inv?sslmode=require", cfg.DB.ConnectionString())
}

func TestValidate(t *testing.T) {
	base := func() *config.Config {
		return &config.Config{
			DB:       config.DBConfig{MaxConns: 5, MinConns: 1},
			RabbitMQ: config.RabbitMQConfig{Exchange: "x", RetryCount: 1},
		}
	}
	require.NoError(t, base().Validate())

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"max conns cero", func(c *config.Config) { c.DB.MaxConns = 0 }},
		{"min mayor que max", func(c *config.Config) { c.DB.MinConns = 6 }},
		{"broker sin exchange", func(c *config.Config) { c.RabbitMQ.URL = "amqp://mq"; c.RabbitMQ.Exchange = "" }},
		{"reintentos negativos", func(c *config.Config) { c.RabbitMQ.RetryCount = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
