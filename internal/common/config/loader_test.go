package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Postgres(t *testing.T) {
	t.Setenv("TEST_INTAKE_DB_PASSWORD", "s3cret")

	path := writeConfig(t, `
app:
  name: tribe-intake
server:
  address: ":9090"
  allowed_origins:
    - https://breakouttribe.com
  trusted_proxies:
    - 10.0.0.0/8
    - 192.0.2.10
database:
  driver: postgres
  postgres:
    host: localhost
    database: tribe
    user: tribe
    password: ${TEST_INTAKE_DB_PASSWORD}
  redis:
    address: localhost:6379
intake:
  rate_limit:
    enabled: true
    limit: 3
logging:
  level: debug
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, []string{"https://breakouttribe.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.10"}, cfg.Server.TrustedProxies)
	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "host=localhost port=5432 user=tribe password=s3cret dbname=tribe sslmode=disable", cfg.Database.Postgres.GetDSN())
	assert.True(t, cfg.Intake.RateLimit.Enabled)
	assert.Equal(t, 3, cfg.Intake.RateLimit.Limit)
	assert.Equal(t, 60000, cfg.Intake.RateLimit.Window)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFile_MemoryDriverNeedsNoPostgres(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: memory
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, int64(64<<10), cfg.Server.MaxBodyBytes)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing postgres host",
			body: "database:\n  driver: postgres\n  postgres:\n    database: tribe\n    user: tribe\n",
			want: "database.postgres.host is required",
		},
		{
			name: "unknown driver",
			body: "database:\n  driver: mysql\n",
			want: "database.driver must be",
		},
		{
			name: "rate limit without redis",
			body: "database:\n  driver: memory\nintake:\n  rate_limit:\n    enabled: true\n",
			want: "database.redis.address is required",
		},
		{
			name: "email without sender",
			body: "database:\n  driver: memory\nnotifications:\n  email:\n    enabled: true\n",
			want: "notifications.email.from_email is required",
		},
		{
			name: "alerts without topic",
			body: "database:\n  driver: memory\nnotifications:\n  alerts:\n    enabled: true\n",
			want: "notifications.alerts.topic_arn is required",
		},
		{
			name: "bad trusted proxy",
			body: "database:\n  driver: memory\nserver:\n  trusted_proxies:\n    - lb.internal\n",
			want: "server.trusted_proxies: invalid entry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}
