package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.DB.Driver)
	assert.Equal(t, 5*time.Second, cfg.Ledger.TxTimeout)
	assert.Equal(t, int64(5), cfg.Ledger.LowStockThreshold)
	assert.Empty(t, cfg.Audit.Schedule)
	assert.False(t, cfg.Migrations.AutoApply)
}

func TestLoad_LeeDuracionesYBooleanos(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("LEDGER_TX_TIMEOUT", "750ms")
	t.Setenv("LEDGER_LOCK_TIMEOUT", "1s")
	t.Setenv("MIGRATIONS_AUTO_APPLY", "true")
	t.Setenv("LEDGER_LOW_STOCK_THRESHOLD", "12")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 750*time.Millisecond, cfg.Ledger.TxTimeout)
	assert.Equal(t, time.Second, cfg.Ledger.LockTimeout)
	assert.True(t, cfg.Migrations.AutoApply)
	assert.Equal(t, int64(12), cfg.Ledger.LowStockThreshold)
}

func TestLoad_DuracionInvalida(t *testing.T) {
	t.Setenv("LEDGER_TX_TIMEOUT", "cinco")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LEDGER_TX_TIMEOUT")
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Load()
	require.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "market", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/market?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
