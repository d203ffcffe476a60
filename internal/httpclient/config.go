package httpclient

import (
	"context"
	"crypto/tls"
	"net"
	"net/url"
	"time"
)

// DialFunc matches http.Transport.DialContext
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// HTTPClientConfig holds configuration for HTTPClient
type HTTPClientConfig struct {
	Timeout             time.Duration
	UserAgent           string
	Accept              string
	CustomHeaders       map[string]string
	MaxContentSize      int
	FollowRedirects     bool
	MaxRedirects        int
	EnableHTTP2         bool
	DialTimeout         time.Duration
	KeepAlive           time.Duration
	TLSHandshakeTimeout time.Duration
	IdleConnTimeout     time.Duration
	MaxIdleConns        int
	MaxIdleConnsPerHost int

	// RedirectPolicy is consulted for every redirect target before it is requested.
	RedirectPolicy func(target *url.URL) error
	// AddressGuard is consulted for every IP a hostname resolves to before dialing.
	AddressGuard func(ip net.IP) error
	// DialContext replaces the default net.Dialer.
	DialContext DialFunc
	// TLSConfig overrides the transport's TLS settings, e.g. extra root CAs.
	TLSConfig *tls.Config
}

// DefaultAccept prefers HTML documents
const DefaultAccept = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

// DefaultHTTPClientConfig returns a configuration suitable for fetching web pages
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:             5 * time.Second,
		Accept:              DefaultAccept,
		CustomHeaders:       make(map[string]string),
		MaxContentSize:      1 << 20,
		FollowRedirects:     true,
		MaxRedirects:        5,
		EnableHTTP2:         true,
		DialTimeout:         5 * time.Second,
		KeepAlive:           30 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 5,
	}
}
