package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// GetConfigPath determines the configuration file path.
// Priority:
// 1. configFilePathFlag (returned as-is so a missing file is reported by the loader)
// 2. URLIST_CONFIG_PATH environment variable
// 3. config.yaml / config.json in the current working directory
// 4. config.yaml / config.json in the executable's directory
func GetConfigPath(configFilePathFlag string) string {
	if configFilePathFlag != "" {
		return configFilePathFlag
	}

	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		return envPath
	}

	cwd, errCwd := os.Getwd()
	exeDir := ""
	if exePath, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exePath)
	}

	var locations []string
	if errCwd == nil {
		locations = append(locations, cwd)
	}
	if exeDir != "" && exeDir != cwd {
		locations = append(locations, exeDir)
	}

	for _, loc := range locations {
		for _, file := range []string{"config.yaml", "config.json"} {
			path := filepath.Join(loc, file)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// LoadDotEnv loads a .env file from the working directory when one exists.
// Variables already set in the environment win.
func LoadDotEnv(logger zerolog.Logger) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn().Err(err).Msg("Failed to load .env file")
		}
	}
}

// ApplyEnvOverrides copies supported environment variables over cfg.
func ApplyEnvOverrides(cfg *GlobalConfig) {
	if v := os.Getenv(EnvListenAddr); v != "" {
		cfg.ServerConfig.ListenAddr = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.StorageConfig.SQLiteDBPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogConfig.LogLevel = v
	}
}
