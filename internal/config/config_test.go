package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAPIConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *APIConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
sentry_dsn: "https://sentry.example.com"
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: 20
  write_timeout: 20
  idle_timeout: 180
database:
  host: localhost
  port: 5432
  user: testuser
  password: testpass
  dbname: testdb
  sslmode: require
nats:
  url: "nats://localhost:4222"
  stream_name: "TEST_STREAM"
  max_reconnects: 5
  reconnect_wait: "5s"
redis:
  addr: "localhost:6380"
  password: "redispass"
  db: 2
rate_limit:
  entries_per_minute: 30
  key_prefix: "test-entry:"
  enable_local_fallback: false
cache:
  ttl: "45s"
  key_prefix: "test-station:"
auth:
  jwt_public_key: "test-public-key"
`,
			expectError: false,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "https://sentry.example.com", cfg.SentryDSN)
				assert.Equal(t, "127.0.0.1", cfg.Server.Host)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 20, cfg.Server.ReadTimeout)
				assert.Equal(t, 180, cfg.Server.IdleTimeout)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, "require", cfg.Database.SSLMode)
				assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
				assert.Equal(t, "TEST_STREAM", cfg.NATS.StreamName)
				assert.Equal(t, 5, cfg.NATS.MaxReconnects)
				assert.Equal(t, 5*time.Second, cfg.NATS.ReconnectWait)
				assert.Equal(t, "localhost:6380", cfg.Redis.Addr)
				assert.Equal(t, 2, cfg.Redis.DB)
				assert.Equal(t, 30, cfg.RateLimit.EntriesPerMinute)
				assert.Equal(t, "test-entry:", cfg.RateLimit.KeyPrefix)
				assert.False(t, cfg.RateLimit.EnableLocalFallback)
				assert.Equal(t, 45*time.Second, cfg.Cache.TTL)
				assert.Equal(t, "test-station:", cfg.Cache.KeyPrefix)
				assert.Equal(t, "test-public-key", cfg.Auth.JWTPublicKey)
			},
		},
		{
			name: "config with defaults",
			configFile: `
database:
  host: localhost
  user: testuser
  password: testpass
  dbname: testdb
`,
			expectError: false,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.False(t, cfg.Debug)                                // default
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)               // default
				assert.Equal(t, 8080, cfg.Server.Port)                    // default
				assert.Equal(t, 10, cfg.Server.ReadTimeout)               // default
				assert.Equal(t, 10, cfg.Server.WriteTimeout)              // default
				assert.Equal(t, 120, cfg.Server.IdleTimeout)              // default
				assert.Equal(t, 5432, cfg.Database.Port)                  // default
				assert.Equal(t, "disable", cfg.Database.SSLMode)          // default
				assert.Equal(t, "BALLOT_ENTRIES", cfg.NATS.StreamName)    // default
				assert.Equal(t, "ballot-api", cfg.NATS.ConnectionName)    // default
				assert.Equal(t, "localhost:6379", cfg.Redis.Addr)         // default
				assert.Equal(t, 60, cfg.RateLimit.EntriesPerMinute)       // default
				assert.Equal(t, "ballot-entry:", cfg.RateLimit.KeyPrefix) // default
				assert.True(t, cfg.RateLimit.EnableLocalFallback)         // default
				assert.Equal(t, 30*time.Second, cfg.Cache.TTL)            // default
				assert.Equal(t, "station:", cfg.Cache.KeyPrefix)          // default
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configFile := filepath.Join(tmpDir, "config.yaml")
			err := os.WriteFile(configFile, []byte(tt.configFile), 0600)
			require.NoError(t, err)

			cfg, err := LoadAPIConfig(configFile, tmpDir)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)
				if tt.validate != nil {
					tt.validate(t, cfg)
				}
			}
		})
	}
}

func TestLoadWorkerConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *WorkerConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
database:
  host: localhost
  user: testuser
  password: testpass
  dbname: testdb
nats:
  url: "nats://localhost:4222"
  consumer_name: "test-processor"
  ack_wait: "60s"
  max_deliver: 3
processor:
  pool_size: 8
  queue_size: 256
  max_persist_attempts: 3
  persist_retry_interval: "250ms"
`,
			expectError: false,
			validate: func(t *testing.T, cfg *WorkerConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "test-processor", cfg.NATS.ConsumerName)
				assert.Equal(t, 60*time.Second, cfg.NATS.AckWait)
				assert.Equal(t, 3, cfg.NATS.MaxDeliver)
				assert.Equal(t, 8, cfg.Processor.PoolSize)
				assert.Equal(t, 256, cfg.Processor.QueueSize)
				assert.Equal(t, 3, cfg.Processor.MaxPersistAttempts)
				assert.Equal(t, 250*time.Millisecond, cfg.Processor.PersistRetryInterval)
			},
		},
		{
			name: "config with defaults",
			configFile: `
database:
  host: localhost
  user: testuser
  password: testpass
  dbname: testdb
nats:
  url: "nats://localhost:4222"
`,
			expectError: false,
			validate: func(t *testing.T, cfg *WorkerConfig) {
				assert.Equal(t, "ballot-processor", cfg.NATS.ConsumerName)              // default
				assert.Equal(t, "ballot-worker", cfg.NATS.ConnectionName)               // default
				assert.Equal(t, 30*time.Second, cfg.NATS.AckWait)                       // default
				assert.Equal(t, 5, cfg.NATS.MaxDeliver)                                 // default
				assert.Equal(t, 20, cfg.Processor.PoolSize)                             // default
				assert.Equal(t, 2048, cfg.Processor.QueueSize)                          // default
				assert.Equal(t, 5, cfg.Processor.MaxPersistAttempts)                    // default
				assert.Equal(t, 500*time.Millisecond, cfg.Processor.PersistRetryInterval) // default
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configFile := filepath.Join(tmpDir, "config.yaml")
			err := os.WriteFile(configFile, []byte(tt.configFile), 0600)
			require.NoError(t, err)

			cfg, err := LoadWorkerConfig(configFile, tmpDir)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)
				if tt.validate != nil {
					tt.validate(t, cfg)
				}
			}
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	tests := []struct {
		name     string
		config   DatabaseConfig
		expected string
	}{
		{
			name: "complete config",
			config: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "testuser",
				Password: "testpass",
				DBName:   "testdb",
				SSLMode:  "require",
			},
			expected: "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=require",
		},
		{
			name: "minimal config",
			config: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "user",
				Password: "pass",
				DBName:   "db",
				SSLMode:  "disable",
			},
			expected: "host=localhost port=5432 user=user password=pass dbname=db sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn := tt.config.DSN()
			assert.Equal(t, tt.expected, dsn)
		})
	}
}

func TestConfigWithEnvironmentVariables(t *testing.T) {
	tmpDir := t.TempDir()

	// Create temporary directory for env files
	envDir := filepath.Join(tmpDir, "env")
	err := os.MkdirAll(envDir, 0750)
	require.NoError(t, err)

	// Create .env file with environment variables
	// Note: Viper uses BALLOT_PIPELINE_ prefix, so env vars need the prefix
	envFile := filepath.Join(envDir, ".env")
	envContent := `BALLOT_PIPELINE_DEBUG=true
BALLOT_PIPELINE_DATABASE_HOST=env-host
BALLOT_PIPELINE_DATABASE_PORT=3306
BALLOT_PIPELINE_DATABASE_USER=env-user
BALLOT_PIPELINE_DATABASE_PASSWORD=env-pass
BALLOT_PIPELINE_DATABASE_DBNAME=env-db
BALLOT_PIPELINE_REDIS_ADDR=env-redis:6379
`
	err = os.WriteFile(envFile, []byte(envContent), 0600)
	require.NoError(t, err)

	// Create config file with different values to verify env vars override
	configPath := filepath.Join(tmpDir, "config.yaml")
	configFile := `
debug: false
database:
  host: file-host
  port: 5432
  user: file-user
  password: file-pass
  dbname: file-db
redis:
  addr: file-redis:6379
`

	err = os.WriteFile(configPath, []byte(configFile), 0600)
	require.NoError(t, err)

	cfg, err := LoadAPIConfig(configPath, envDir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// The .env file is loaded via godotenv.Overload, which sets actual
	// environment variables; viper's AutomaticEnv picks them up with the
	// BALLOT_PIPELINE_ prefix and they win over config file values
	assert.True(t, cfg.Debug)
	assert.Equal(t, "env-host", cfg.Database.Host)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "env-user", cfg.Database.User)
	assert.Equal(t, "env-pass", cfg.Database.Password)
	assert.Equal(t, "env-db", cfg.Database.DBName)
	assert.Equal(t, "env-redis:6379", cfg.Redis.Addr)
}
