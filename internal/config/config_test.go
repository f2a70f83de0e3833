package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, StoreMongoDB, cfg.StoreBackend)
	assert.Equal(t, SinkKafka, cfg.EventSink)
	assert.Equal(t, RankByCode, cfg.RankingStrategy)
	assert.Equal(t, time.Second, cfg.OutboxPollInterval)
	assert.Equal(t, "putaway", cfg.MongoDB.Database)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "putaway.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
store:
  backend: memory
kafka:
  brokers: [kafka-1:9092, kafka-2:9092]
events:
  sink: rabbitmq
  pollInterval: 250ms
putaway:
  timezone: Europe/Berlin
  rankingStrategy: least_occupied
  rulesFile: /etc/putaway/rules.yaml
tracing:
  enabled: false
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_ADDR", ":9100")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.ServerAddr)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, SinkRabbitMQ, cfg.EventSink)
	assert.Equal(t, 250*time.Millisecond, cfg.OutboxPollInterval)
	assert.Equal(t, RankByLeastOccupied, cfg.RankingStrategy)
	assert.Equal(t, "/etc/putaway/rules.yaml", cfg.RulesFile)
	assert.False(t, cfg.Tracing.Enabled)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"STORE_BACKEND", "sqlite"},
		{"EVENT_SINK", "carrier-pigeon"},
		{"RANKING_STRATEGY", "random"},
		{"OUTBOX_POLL_INTERVAL", "soon"},
		{"TIMEZONE", "Mars/Olympus_Mons"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv("CONFIG_FILE", "")
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	_, err := Load()
	assert.Error(t, err)
}
