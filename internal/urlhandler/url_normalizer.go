package urlhandler

import (
	"net/url"
	"strings"
)

// URLNormalizationConfig configures URL normalization behavior
type URLNormalizationConfig struct {
	StripFragments      bool
	StripTrackingParams bool
	// CustomStripParams are removed in addition to the common tracking params.
	CustomStripParams []string
}

// DefaultURLNormalizationConfig strips fragments only; query strings are left intact.
func DefaultURLNormalizationConfig() URLNormalizationConfig {
	return URLNormalizationConfig{
		StripFragments: true,
	}
}

var commonTrackingParams = []string{
	"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content",
	"fbclid", "gclid", "msclkid", "_ga", "_gl", "mc_cid", "mc_eid",
}

// URLNormalizer handles URL normalization operations
type URLNormalizer struct {
	config      URLNormalizationConfig
	stripParams map[string]bool
}

// NewURLNormalizer creates a new URL normalizer
func NewURLNormalizer(config URLNormalizationConfig) *URLNormalizer {
	stripParams := make(map[string]bool)
	if config.StripTrackingParams {
		for _, param := range commonTrackingParams {
			stripParams[param] = true
		}
	}
	for _, param := range config.CustomStripParams {
		stripParams[strings.ToLower(param)] = true
	}

	return &URLNormalizer{
		config:      config,
		stripParams: stripParams,
	}
}

// Normalize returns a copy of u with a lower-cased scheme and host and the
// configured parts removed. u is not modified.
func (un *URLNormalizer) Normalize(u *url.URL) *url.URL {
	out := *u

	out.Scheme = strings.ToLower(out.Scheme)
	out.Host = strings.ToLower(out.Host)

	if un.config.StripFragments {
		out.Fragment = ""
		out.RawFragment = ""
	}

	if len(un.stripParams) > 0 && out.RawQuery != "" {
		values := out.Query()
		modified := false
		for param := range values {
			if un.stripParams[strings.ToLower(param)] {
				values.Del(param)
				modified = true
			}
		}
		if modified {
			out.RawQuery = values.Encode()
		}
	}

	return &out
}
