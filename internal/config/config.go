// Package config provides YAML-based configuration with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendLocal = "local"
	BackendMinio = "minio"
)

// AppConfig represents the root configuration structure
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Relay   RelayConfig   `yaml:"relay"`
	Audit   AuditConfig   `yaml:"audit"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port                 int    `yaml:"port" env:"PORT"`
	BindAddress          string `yaml:"bindAddress" env:"BIND_ADDRESS"`
	ReadTimeout          int    `yaml:"readTimeoutSeconds"`
	WriteTimeout         int    `yaml:"writeTimeoutSeconds"`
	IdleTimeout          int    `yaml:"idleTimeoutSeconds"`
	ShutdownTimeout      int    `yaml:"shutdownTimeoutSeconds"`
	BodyLimit            string `yaml:"bodyLimit" env:"BODY_LIMIT"`
	StaticDirectory      string `yaml:"staticDirectory" env:"STATIC_DIR"`
	EnableRequestLogging bool   `yaml:"enableRequestLogging"`
}

// StorageConfig selects and configures the blob store
type StorageConfig struct {
	Backend          string      `yaml:"backend" env:"STORAGE_BACKEND"`
	UploadsDirectory string      `yaml:"uploadsDirectory" env:"UPLOAD_DIR"`
	Minio            MinioConfig `yaml:"minio"`
}

// MinioConfig contains S3-compatible object store settings
type MinioConfig struct {
	Endpoint  string `yaml:"endpoint" env:"S3_ENDPOINT"`
	AccessKey string `yaml:"accessKey" env:"S3_ACCESS_KEY"`
	SecretKey string `yaml:"secretKey" env:"S3_SECRET_KEY"`
	Bucket    string `yaml:"bucket" env:"S3_BUCKET"`
	Prefix    string `yaml:"prefix" env:"S3_PREFIX"`
	UseSSL    bool   `yaml:"useSSL" env:"S3_USE_SSL"`
}

// RelayConfig tunes session and blob behaviour
type RelayConfig struct {
	// PreserveOriginalName makes downloads carry the uploader's filename
	// instead of the generated blob name.
	PreserveOriginalName       bool `yaml:"preserveOriginalName" env:"PRESERVE_ORIGINAL_NAME"`
	DeletePreviousOnReupload   bool `yaml:"deletePreviousOnReupload"`
	OrphanSweepIntervalMinutes int  `yaml:"orphanSweepIntervalMinutes"`
	OrphanGraceMinutes         int  `yaml:"orphanGraceMinutes"`
}

// AuditConfig contains transfer ledger settings
type AuditConfig struct {
	Enabled      bool   `yaml:"enabled" env:"AUDIT_ENABLED"`
	DatabasePath string `yaml:"databasePath" env:"AUDIT_DB_PATH"`
}

// LoggingConfig contains log settings
type LoggingConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:                 3000,
			BindAddress:          "0.0.0.0",
			ReadTimeout:          30,
			WriteTimeout:         0,
			IdleTimeout:          120,
			ShutdownTimeout:      10,
			BodyLimit:            "512M",
			EnableRequestLogging: true,
		},
		Storage: StorageConfig{
			Backend:          BackendLocal,
			UploadsDirectory: "uploads",
		},
		Relay: RelayConfig{
			PreserveOriginalName:       false,
			DeletePreviousOnReupload:   true,
			OrphanSweepIntervalMinutes: 10,
			OrphanGraceMinutes:         60,
		},
		Audit: AuditConfig{
			Enabled:      true,
			DatabasePath: "data/ledger.duckdb",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from a YAML file, writing the defaults there
// first if the file does not exist. Environment variables override file values.
func LoadConfig(configPath string) (*AppConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := cfg.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnvironmentOverrides(); err != nil {
		return nil, err
	}

	cfg.resolvePaths(filepath.Dir(configPath))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves the configuration to a YAML file
func (c *AppConfig) Save(configPath string) error {
	output, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# File relay configuration\n# This file is auto-generated on first run\n\n")
	content := append(header, output...)

	if dir := filepath.Dir(configPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnvironmentOverrides lets environment variables override config values
func (c *AppConfig) applyEnvironmentOverrides() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(configDir, p)
	}

	c.Storage.UploadsDirectory = resolve(c.Storage.UploadsDirectory)
	c.Server.StaticDirectory = resolve(c.Server.StaticDirectory)
	c.Audit.DatabasePath = resolve(c.Audit.DatabasePath)
}

// Validate reports the first invalid setting.
func (c *AppConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case BackendLocal:
		if c.Storage.UploadsDirectory == "" {
			return fmt.Errorf("storage.uploadsDirectory is required for the local backend")
		}
	case BackendMinio:
		m := c.Storage.Minio
		if m.Endpoint == "" || m.AccessKey == "" || m.SecretKey == "" || m.Bucket == "" {
			return fmt.Errorf("storage.minio endpoint, accessKey, secretKey and bucket are required for the minio backend")
		}
	default:
		return fmt.Errorf("unknown storage backend: %q", c.Storage.Backend)
	}

	if c.Relay.OrphanSweepIntervalMinutes < 0 || c.Relay.OrphanGraceMinutes < 0 {
		return fmt.Errorf("relay sweep settings must not be negative")
	}
	return nil
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// EnsureDirectories creates all necessary local directories
func (c *AppConfig) EnsureDirectories() error {
	var dirs []string
	if c.Storage.Backend == BackendLocal {
		dirs = append(dirs, c.Storage.UploadsDirectory)
	}
	if c.Audit.Enabled && c.Audit.DatabasePath != "" {
		dirs = append(dirs, filepath.Dir(c.Audit.DatabasePath))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
