package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_CreatesDefaultFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filerelay.yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err, "default config should be written")

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, BackendLocal, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(dir, "uploads"), cfg.Storage.UploadsDirectory)
	assert.Equal(t, filepath.Join(dir, "data", "ledger.duckdb"), cfg.Audit.DatabasePath)
	assert.True(t, cfg.Relay.DeletePreviousOnReupload)
	assert.False(t, cfg.Relay.PreserveOriginalName)
}

func TestLoadConfig_ReadsYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filerelay.yaml")
	content := `
server:
  port: 8088
  bindAddress: 127.0.0.1
storage:
  backend: local
  uploadsDirectory: /var/lib/filerelay
relay:
  preserveOriginalName: true
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8088", cfg.GetServerAddr())
	assert.Equal(t, "/var/lib/filerelay", cfg.Storage.UploadsDirectory)
	assert.True(t, cfg.Relay.PreserveOriginalName)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// untouched keys keep their defaults
	assert.Equal(t, 120, cfg.Server.IdleTimeout)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filerelay.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 8088\n"), 0644))

	t.Setenv("PORT", "9099")
	t.Setenv("UPLOAD_DIR", "/tmp/relay-uploads")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("AUDIT_ENABLED", "false")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9099, cfg.Server.Port)
	assert.Equal(t, "/tmp/relay-uploads", cfg.Storage.UploadsDirectory)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.False(t, cfg.Audit.Enabled)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filerelay.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not, a, map"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *AppConfig)
		wantErr bool
	}{
		{"defaults", func(c *AppConfig) {}, false},
		{"bad port", func(c *AppConfig) { c.Server.Port = 0 }, true},
		{"unknown backend", func(c *AppConfig) { c.Storage.Backend = "ftp" }, true},
		{"backend is case insensitive", func(c *AppConfig) { c.Storage.Backend = " LOCAL " }, false},
		{"minio without credentials", func(c *AppConfig) { c.Storage.Backend = BackendMinio }, true},
		{"minio complete", func(c *AppConfig) {
			c.Storage.Backend = BackendMinio
			c.Storage.Minio = MinioConfig{Endpoint: "minio:9000", AccessKey: "a", SecretKey: "s", Bucket: "b"}
		}, false},
		{"negative grace", func(c *AppConfig) { c.Relay.OrphanGraceMinutes = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Storage.UploadsDirectory = filepath.Join(dir, "up")
	cfg.Audit.DatabasePath = filepath.Join(dir, "ledger", "db.duckdb")

	require.NoError(t, cfg.EnsureDirectories())

	for _, d := range []string{"up", "ledger"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
