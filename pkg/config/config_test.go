package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-inventory/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoreMemory, cfg.Store.Driver)
	assert.Equal(t, config.NotifyLog, cfg.Notify.Driver)
	assert.Equal(t, 30*time.Second, cfg.Notify.SweepInterval, "el barrido de stock bajo corre cada 30 s")
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_EnvSobrescribe(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_DRIVER", "Redis")
	t.Setenv("LOW_STOCK_SWEEP_INTERVAL", "5")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoreRedis, cfg.Store.Driver)
	assert.Equal(t, 5*time.Second, cfg.Notify.SweepInterval)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestLoad_DriverDesconocido(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_DRIVER", "sqlite")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_ProduccionExigeSecretos(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "production")

	_, err := config.Load()
	assert.Error(t, err, "producción sin JWT_SECRET debe fallar")
}

func TestDBConfig_DSN(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "inv", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/inv?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
