package config

import "time"

// ServerConfig defines configuration for the REST API server
type ServerConfig struct {
	ListenAddr          string `json:"listen_addr,omitempty" yaml:"listen_addr,omitempty" validate:"required"`
	ReadTimeoutSecs     int    `json:"read_timeout_secs,omitempty" yaml:"read_timeout_secs,omitempty" validate:"min=1"`
	WriteTimeoutSecs    int    `json:"write_timeout_secs,omitempty" yaml:"write_timeout_secs,omitempty" validate:"min=1"`
	ShutdownTimeoutSecs int    `json:"shutdown_timeout_secs,omitempty" yaml:"shutdown_timeout_secs,omitempty" validate:"min=1"`
	// UserHeader carries the caller identity set by the upstream identity provider.
	UserHeader   string `json:"user_header,omitempty" yaml:"user_header,omitempty" validate:"required"`
	MaxBodyBytes int64  `json:"max_body_bytes,omitempty" yaml:"max_body_bytes,omitempty" validate:"min=1"`
}

// NewDefaultServerConfig creates default server configuration
func NewDefaultServerConfig() ServerConfig {
	return ServerConfig{
		ListenAddr:          DefaultServerListenAddr,
		ReadTimeoutSecs:     DefaultServerReadTimeoutSecs,
		WriteTimeoutSecs:    DefaultServerWriteTimeoutSecs,
		ShutdownTimeoutSecs: DefaultServerShutdownTimeoutSecs,
		UserHeader:          DefaultServerUserHeader,
		MaxBodyBytes:        DefaultServerMaxBodyBytes,
	}
}

// ReadTimeout returns the read timeout as a duration
func (c ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSecs) * time.Second
}

// WriteTimeout returns the write timeout as a duration
func (c ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSecs) * time.Second
}

// ShutdownTimeout returns the graceful shutdown budget as a duration
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSecs) * time.Second
}
