package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	defaultBroker   = "localhost:9092"
	testPrimaryPath = "/data/sheet-A.csv"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("PRIMARY_TABLE_PATH", testPrimaryPath)
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, testPrimaryPath, cfg.PrimaryTablePath)
	assert.Empty(t, cfg.MassBalancePaths)
	assert.Equal(t, ',', cfg.TableDelimiter)
	assert.Equal(t, time.Duration(0), cfg.ReloadInterval)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "glacier-snapshots", cfg.KafkaSinkTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("MASS_BALANCE_PATHS", "/data/sheet-EE.csv, /data/sheet-EE-2021.csv,")
	t.Setenv("TABLE_DELIMITER", ";")
	t.Setenv("RELOAD_INTERVAL", "1h")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"/data/sheet-EE.csv", "/data/sheet-EE-2021.csv"}, cfg.MassBalancePaths)
	assert.Equal(t, ';', cfg.TableDelimiter)
	assert.Equal(t, time.Hour, cfg.ReloadInterval)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
}

func TestLoad_MissingPrimaryTable(t *testing.T) {
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PRIMARY_TABLE_PATH")
}

func TestLoad_TabDelimiter(t *testing.T) {
	setRequired(t)
	t.Setenv("TABLE_DELIMITER", `\t`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, '\t', cfg.TableDelimiter)
}

func TestLoad_InvalidDelimiter(t *testing.T) {
	for _, d := range []string{";;", `"`} {
		t.Run(d, func(t *testing.T) {
			setRequired(t)
			t.Setenv("TABLE_DELIMITER", d)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "TABLE_DELIMITER")
		})
	}
}

func TestLoad_InvalidReloadInterval(t *testing.T) {
	for _, v := range []string{"soon", "-1m"} {
		t.Run(v, func(t *testing.T) {
			setRequired(t)
			t.Setenv("RELOAD_INTERVAL", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "RELOAD_INTERVAL")
		})
	}
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	setRequired(t)
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	setRequired(t)
	t.Setenv("BATCH_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_KafkaDisabledByDefault(t *testing.T) {
	setRequired(t)
	t.Setenv("KAFKA_ENABLED", "yes")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}
