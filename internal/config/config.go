package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/aleister1102/urlist/internal/common"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// maxConfigFileSize bounds how much of a config file is read.
const maxConfigFileSize = 10 * 1024 * 1024

type GlobalConfig struct {
	LogConfig      LogConfig      `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	MetadataConfig MetadataConfig `json:"metadata_config,omitempty" yaml:"metadata_config,omitempty"`
	ServerConfig   ServerConfig   `json:"server_config,omitempty" yaml:"server_config,omitempty"`
	StorageConfig  StorageConfig  `json:"storage_config,omitempty" yaml:"storage_config,omitempty"`
	VanityConfig   VanityConfig   `json:"vanity_config,omitempty" yaml:"vanity_config,omitempty"`
}

func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		LogConfig:      NewDefaultLogConfig(),
		MetadataConfig: NewDefaultMetadataConfig(),
		ServerConfig:   NewDefaultServerConfig(),
		StorageConfig:  NewDefaultStorageConfig(),
		VanityConfig:   NewDefaultVanityConfig(),
	}
}

// LoadGlobalConfig loads the configuration from a file or default locations.
// It determines the config file path using GetConfigPath, supports both JSON and YAML formats,
// then applies .env and environment overrides. The result is not validated; call ValidateConfig.
func LoadGlobalConfig(providedPath string, logger zerolog.Logger) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	filePath := GetConfigPath(providedPath)
	if filePath != "" {
		fileManager := common.NewFileManager(logger)
		if !fileManager.FileExists(filePath) {
			return nil, common.NewValidationError("config_file", filePath, "config file does not exist")
		}

		data, err := fileManager.ReadFile(filePath, maxConfigFileSize)
		if err != nil {
			return nil, common.WrapError(err, "failed to load config file content")
		}

		if err := parseConfigContent(data, filePath, cfg); err != nil {
			return nil, common.WrapError(err, "failed to parse config content")
		}
		logger.Debug().Str("path", filePath).Msg("Loaded configuration file")
	}

	LoadDotEnv(logger)
	ApplyEnvOverrides(cfg)

	return cfg, nil
}

// parseConfigContent parses the config content based on file extension
func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	if isYAMLFile(filepath.Ext(filePath)) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to unmarshal YAML from '%s': %w", filePath, err)
		}
		return nil
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to unmarshal JSON from '%s': %w", filePath, err)
	}
	return nil
}

func isYAMLFile(ext string) bool {
	return ext == ".yaml" || ext == ".yml"
}
