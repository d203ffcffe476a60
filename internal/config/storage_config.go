package config

// StorageConfig defines configuration for data storage
type StorageConfig struct {
	SQLiteDBPath string `json:"sqlite_db_path,omitempty" yaml:"sqlite_db_path,omitempty" validate:"required,sqlitepath"`
}

// NewDefaultStorageConfig creates default storage configuration
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		SQLiteDBPath: DefaultStorageSQLiteDBPath,
	}
}
