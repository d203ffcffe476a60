package config

const (
	// Server Defaults
	DefaultServerListenAddr          = ":8080"
	DefaultServerReadTimeoutSecs     = 15
	DefaultServerWriteTimeoutSecs    = 30
	DefaultServerShutdownTimeoutSecs = 10
	DefaultServerUserHeader          = "X-User-ID"
	DefaultServerMaxBodyBytes        = 1 << 20

	// Metadata Resolver Defaults
	DefaultMetadataUserAgent           = "Mozilla/5.0 (compatible; TheURList/1.0; +http://urlist.com)"
	DefaultMetadataTimeoutMillis       = 5000
	DefaultMetadataMaxContentSizeBytes = 1 << 20
	DefaultMetadataMaxRedirects        = 5
	DefaultMetadataRequireHTML         = true
	DefaultMetadataDefaultCanonicalURL = false
	DefaultMetadataParser              = ParserRegex
	DefaultMetadataEnableHTTP2         = true

	// Storage Defaults
	DefaultStorageSQLiteDBPath = "database/urlist.db"

	// Vanity Defaults
	DefaultVanityLength      = 7
	DefaultVanityMaxAttempts = 10

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3
)

// Metadata parser names accepted by metadata_config.parser.
const (
	ParserRegex = "regex"
	ParserDOM   = "dom"
)

// Environment variables consulted by ApplyEnvOverrides and GetConfigPath.
const (
	EnvConfigPath = "URLIST_CONFIG_PATH"
	EnvListenAddr = "URLIST_LISTEN_ADDR"
	EnvDBPath     = "URLIST_DB_PATH"
	EnvLogLevel   = "URLIST_LOG_LEVEL"
)
