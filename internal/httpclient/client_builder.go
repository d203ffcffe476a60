package httpclient

import (
	"crypto/tls"
	"net"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// HTTPClientBuilder builds HTTP clients with fluent interface
type HTTPClientBuilder struct {
	config HTTPClientConfig
	logger zerolog.Logger
}

// NewHTTPClientBuilder creates a new HTTPClientBuilder with default configuration
func NewHTTPClientBuilder(logger zerolog.Logger) *HTTPClientBuilder {
	return &HTTPClientBuilder{
		config: DefaultHTTPClientConfig(),
		logger: logger,
	}
}

// WithTimeout sets the hard deadline for a whole fetch, body included
func (b *HTTPClientBuilder) WithTimeout(timeout time.Duration) *HTTPClientBuilder {
	b.config.Timeout = timeout
	return b
}

// WithUserAgent sets the User-Agent header
func (b *HTTPClientBuilder) WithUserAgent(userAgent string) *HTTPClientBuilder {
	b.config.UserAgent = userAgent
	return b
}

// WithHeader sets a header sent with every request
func (b *HTTPClientBuilder) WithHeader(key, value string) *HTTPClientBuilder {
	b.config.CustomHeaders[key] = value
	return b
}

// WithMaxContentSize sets the maximum body size kept in bytes (0 for no limit)
func (b *HTTPClientBuilder) WithMaxContentSize(size int) *HTTPClientBuilder {
	b.config.MaxContentSize = size
	return b
}

// WithFollowRedirects sets whether to follow redirects
func (b *HTTPClientBuilder) WithFollowRedirects(follow bool) *HTTPClientBuilder {
	b.config.FollowRedirects = follow
	return b
}

// WithMaxRedirects sets the maximum number of redirects to follow
func (b *HTTPClientBuilder) WithMaxRedirects(max int) *HTTPClientBuilder {
	b.config.MaxRedirects = max
	return b
}

// WithRedirectPolicy sets the check applied to every redirect target
func (b *HTTPClientBuilder) WithRedirectPolicy(policy func(target *url.URL) error) *HTTPClientBuilder {
	b.config.RedirectPolicy = policy
	return b
}

// WithAddressGuard sets the check applied to every resolved IP before dialing
func (b *HTTPClientBuilder) WithAddressGuard(guard func(ip net.IP) error) *HTTPClientBuilder {
	b.config.AddressGuard = guard
	return b
}

// WithDialContext replaces the default dialer
func (b *HTTPClientBuilder) WithDialContext(dial DialFunc) *HTTPClientBuilder {
	b.config.DialContext = dial
	return b
}

// WithTLSConfig sets the TLS configuration used for https targets
func (b *HTTPClientBuilder) WithTLSConfig(cfg *tls.Config) *HTTPClientBuilder {
	b.config.TLSConfig = cfg
	return b
}

// WithHTTP2 enables or disables HTTP/2 support
func (b *HTTPClientBuilder) WithHTTP2(enabled bool) *HTTPClientBuilder {
	b.config.EnableHTTP2 = enabled
	return b
}

// Build creates and returns a new HTTPClient
func (b *HTTPClientBuilder) Build() (*HTTPClient, error) {
	return NewHTTPClient(b.config, b.logger)
}
