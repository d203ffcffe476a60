package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aleister1102/urlist/internal/common"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvConfigPath, EnvListenAddr, EnvDBPath, EnvLogLevel} {
		t.Setenv(key, "")
	}
}

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewDefaultGlobalConfig(t *testing.T) {
	cfg := NewDefaultGlobalConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, ":8080", cfg.ServerConfig.ListenAddr)
	assert.Equal(t, "X-User-ID", cfg.ServerConfig.UserHeader)
	assert.Equal(t, 5*time.Second, cfg.MetadataConfig.Timeout())
	assert.Equal(t, 1<<20, cfg.MetadataConfig.MaxContentSizeBytes)
	assert.Equal(t, 5, cfg.MetadataConfig.MaxRedirects)
	assert.True(t, cfg.MetadataConfig.RequireHTML)
	assert.False(t, cfg.MetadataConfig.DefaultCanonicalURL)
	assert.Equal(t, ParserRegex, cfg.MetadataConfig.Parser)
	assert.Equal(t, 7, cfg.VanityConfig.Length)
	assert.Equal(t, "info", cfg.LogConfig.LogLevel)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadGlobalConfig_NoConfigFile(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadGlobalConfig("", zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, NewDefaultGlobalConfig(), cfg)
}

func TestLoadGlobalConfig_NonExistentFile(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadGlobalConfig("/nonexistent/config.json", zerolog.Nop())

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config file does not exist")
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
}

func TestLoadGlobalConfig_JSONFile(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfigFile(t, "config.json", `{
		"log_config": {"log_level": "debug"},
		"metadata_config": {"user_agent": "test-agent", "timeout_ms": 1500, "max_redirects": 2, "parser": "dom"}
	}`)

	cfg, err := LoadGlobalConfig(path, zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogConfig.LogLevel)
	assert.Equal(t, "test-agent", cfg.MetadataConfig.UserAgent)
	assert.Equal(t, 1500*time.Millisecond, cfg.MetadataConfig.Timeout())
	assert.Equal(t, 2, cfg.MetadataConfig.MaxRedirects)
	assert.Equal(t, ParserDOM, cfg.MetadataConfig.Parser)
	// Untouched sections keep their defaults.
	assert.Equal(t, DefaultStorageSQLiteDBPath, cfg.StorageConfig.SQLiteDBPath)
}

func TestLoadGlobalConfig_YAMLFile(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfigFile(t, "config.yaml", `
server_config:
  listen_addr: "127.0.0.1:9000"
  user_header: "X-Auth-User"
metadata_config:
  blocked_hosts:
    - metadata.internal
  guard_resolved_addresses: true
  strip_params: [ref]
  headers:
    Accept-Language: en
storage_config:
  sqlite_db_path: /tmp/urlist-test.db
`)

	cfg, err := LoadGlobalConfig(path, zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.ServerConfig.ListenAddr)
	assert.Equal(t, "X-Auth-User", cfg.ServerConfig.UserHeader)
	assert.Equal(t, []string{"metadata.internal"}, cfg.MetadataConfig.BlockedHosts)
	assert.True(t, cfg.MetadataConfig.GuardResolvedAddresses)
	assert.Equal(t, []string{"ref"}, cfg.MetadataConfig.StripParams)
	assert.Equal(t, map[string]string{"Accept-Language": "en"}, cfg.MetadataConfig.Headers)
	assert.Equal(t, "/tmp/urlist-test.db", cfg.StorageConfig.SQLiteDBPath)
}

func TestLoadGlobalConfig_InvalidContent(t *testing.T) {
	clearConfigEnv(t)

	tests := []struct {
		name     string
		file     string
		content  string
		contains string
	}{
		{name: "json", file: "config.json", content: `{"log_config": {`, contains: "failed to unmarshal JSON"},
		{name: "yaml", file: "config.yml", content: "server_config: [unterminated", contains: "failed to unmarshal YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.file, tt.content)

			cfg, err := LoadGlobalConfig(path, zerolog.Nop())

			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoadGlobalConfig_EnvPathAndOverrides(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfigFile(t, "custom.json", `{"server_config": {"listen_addr": ":7000"}}`)
	t.Setenv(EnvConfigPath, path)
	t.Setenv(EnvDBPath, "/data/override.db")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := LoadGlobalConfig("", zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.ServerConfig.ListenAddr)
	assert.Equal(t, "/data/override.db", cfg.StorageConfig.SQLiteDBPath)
	assert.Equal(t, "warn", cfg.LogConfig.LogLevel)

	t.Setenv(EnvListenAddr, ":7100")
	ApplyEnvOverrides(cfg)
	assert.Equal(t, ":7100", cfg.ServerConfig.ListenAddr)
}

func TestGetConfigPath_FlagWins(t *testing.T) {
	t.Setenv(EnvConfigPath, "/from/env.yaml")

	assert.Equal(t, "/from/flag.yaml", GetConfigPath("/from/flag.yaml"))
	assert.Equal(t, "/from/env.yaml", GetConfigPath(""))
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *GlobalConfig)
		wantErr string
	}{
		{name: "defaults", mutate: func(cfg *GlobalConfig) {}},
		{name: "bad log level", mutate: func(cfg *GlobalConfig) { cfg.LogConfig.LogLevel = "verbose" }, wantErr: "loglevel"},
		{name: "bad log format", mutate: func(cfg *GlobalConfig) { cfg.LogConfig.LogFormat = "xml" }, wantErr: "logformat"},
		{name: "bad parser", mutate: func(cfg *GlobalConfig) { cfg.MetadataConfig.Parser = "html5" }, wantErr: "parser"},
		{name: "zero timeout", mutate: func(cfg *GlobalConfig) { cfg.MetadataConfig.TimeoutMillis = 0 }, wantErr: "TimeoutMillis"},
		{name: "negative redirects", mutate: func(cfg *GlobalConfig) { cfg.MetadataConfig.MaxRedirects = -1 }, wantErr: "MaxRedirects"},
		{name: "empty db path", mutate: func(cfg *GlobalConfig) { cfg.StorageConfig.SQLiteDBPath = "" }, wantErr: "SQLiteDBPath"},
		{name: "short vanity", mutate: func(cfg *GlobalConfig) { cfg.VanityConfig.Length = 2 }, wantErr: "Length"},
		{name: "empty blocked host", mutate: func(cfg *GlobalConfig) { cfg.MetadataConfig.BlockedHosts = []string{""} }, wantErr: "BlockedHosts"},
		{name: "empty strip param", mutate: func(cfg *GlobalConfig) { cfg.MetadataConfig.StripParams = []string{""} }, wantErr: "StripParams"},
		{name: "empty header name", mutate: func(cfg *GlobalConfig) { cfg.MetadataConfig.Headers = map[string]string{"": "x"} }, wantErr: "Headers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultGlobalConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateConfig_Nil(t *testing.T) {
	assert.ErrorIs(t, ValidateConfig(nil), common.ErrInvalidConfiguration)
}

func TestValidateConfig_NamesSectionAndField(t *testing.T) {
	cfg := NewDefaultGlobalConfig()
	cfg.MetadataConfig.TimeoutMillis = 0

	err := ValidateConfig(cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)
	assert.Contains(t, err.Error(), "section 'MetadataConfig', field 'TimeoutMillis'")
}
