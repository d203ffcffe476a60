package config

import "time"

// MetadataConfig defines configuration for the Open Graph metadata resolver
type MetadataConfig struct {
	UserAgent           string `json:"user_agent,omitempty" yaml:"user_agent,omitempty" validate:"required"`
	TimeoutMillis       int    `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty" validate:"min=1"`
	MaxContentSizeBytes int    `json:"max_content_size_bytes,omitempty" yaml:"max_content_size_bytes,omitempty" validate:"min=0"`
	MaxRedirects        int    `json:"max_redirects" yaml:"max_redirects" validate:"min=0"`
	// RequireHTML rejects responses whose declared content type is not HTML.
	RequireHTML bool `json:"require_html" yaml:"require_html"`
	// DefaultCanonicalURL fills an absent og:url with the resolved URL.
	DefaultCanonicalURL bool     `json:"default_canonical_url" yaml:"default_canonical_url"`
	StripTrackingParams bool     `json:"strip_tracking_params" yaml:"strip_tracking_params"`
	Parser              string   `json:"parser,omitempty" yaml:"parser,omitempty" validate:"omitempty,parser"`
	BlockedHosts        []string `json:"blocked_hosts,omitempty" yaml:"blocked_hosts,omitempty" validate:"omitempty,dive,required"`
	// StripParams are query parameters removed before fetching, on top of the tracking set.
	StripParams []string `json:"strip_params,omitempty" yaml:"strip_params,omitempty" validate:"omitempty,dive,required"`
	// Headers are sent with every fetch. User-Agent always comes from UserAgent.
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty" validate:"omitempty,dive,keys,required,endkeys"`
	// GuardResolvedAddresses re-checks every IP the dialer resolves against the private ranges.
	GuardResolvedAddresses bool `json:"guard_resolved_addresses" yaml:"guard_resolved_addresses"`
	EnableHTTP2            bool `json:"enable_http2" yaml:"enable_http2"`
}

// NewDefaultMetadataConfig creates default metadata resolver configuration
func NewDefaultMetadataConfig() MetadataConfig {
	return MetadataConfig{
		UserAgent:           DefaultMetadataUserAgent,
		TimeoutMillis:       DefaultMetadataTimeoutMillis,
		MaxContentSizeBytes: DefaultMetadataMaxContentSizeBytes,
		MaxRedirects:        DefaultMetadataMaxRedirects,
		RequireHTML:         DefaultMetadataRequireHTML,
		DefaultCanonicalURL: DefaultMetadataDefaultCanonicalURL,
		Parser:              DefaultMetadataParser,
		EnableHTTP2:         DefaultMetadataEnableHTTP2,
	}
}

// Timeout returns the hard fetch timeout as a duration
func (c MetadataConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMillis) * time.Millisecond
}
