package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/aleister1102/urlist/internal/common"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
)

// FetchResult holds the outcome of a successful GET
type FetchResult struct {
	StatusCode  int
	ContentType string
	Header      http.Header
	Body        []byte
	// Truncated is set when the body was cut at MaxContentSize.
	Truncated bool
	// FinalURL is the URL of the last request in the redirect chain.
	FinalURL string
}

// HTTPClient wraps net/http.Client with a fetch policy: hard deadline, body cap,
// guarded redirects and optional resolved-address checks. Requests are never retried.
type HTTPClient struct {
	client *http.Client
	config HTTPClientConfig
	logger zerolog.Logger
}

// NewHTTPClient creates a new HTTP client with the given configuration using net/http
func NewHTTPClient(config HTTPClientConfig, logger zerolog.Logger) (*HTTPClient, error) {
	if config.Timeout <= 0 {
		return nil, common.NewValidationError("timeout", config.Timeout, "timeout must be positive")
	}
	if config.MaxRedirects < 0 {
		return nil, common.NewValidationError("max_redirects", config.MaxRedirects, "max redirects cannot be negative")
	}

	logger = logger.With().Str("component", "HTTPClient").Logger()

	dial := config.DialContext
	if dial == nil {
		dial = (&net.Dialer{
			Timeout:   config.DialTimeout,
			KeepAlive: config.KeepAlive,
		}).DialContext
	}
	if config.AddressGuard != nil {
		dial = guardedDial(dial, net.DefaultResolver, config.AddressGuard)
	}

	transport := &http.Transport{
		DialContext:         dial,
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		TLSHandshakeTimeout: config.TLSHandshakeTimeout,
		TLSClientConfig:     config.TLSConfig,
	}

	if config.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			logger.Warn().Err(err).Msg("Failed to configure HTTP/2, falling back to HTTP/1.1")
		}
	}

	client := &http.Client{
		Transport:     transport,
		CheckRedirect: redirectChecker(config),
	}

	logger.Debug().
		Dur("timeout", config.Timeout).
		Bool("follow_redirects", config.FollowRedirects).
		Int("max_redirects", config.MaxRedirects).
		Int("max_content_size", config.MaxContentSize).
		Bool("address_guard", config.AddressGuard != nil).
		Bool("http2_enabled", config.EnableHTTP2).
		Msg("HTTP client created")

	return &HTTPClient{
		client: client,
		config: config,
		logger: logger,
	}, nil
}

func redirectChecker(config HTTPClientConfig) func(req *http.Request, via []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if !config.FollowRedirects {
			return http.ErrUseLastResponse
		}
		if len(via) > config.MaxRedirects {
			return fmt.Errorf("%w: stopped after %d", ErrTooManyRedirects, config.MaxRedirects)
		}
		if config.RedirectPolicy != nil {
			if err := config.RedirectPolicy(req.URL); err != nil {
				return err
			}
		}
		return nil
	}
}

// guardedDial resolves the host itself so every candidate IP is checked before any connection.
func guardedDial(base DialFunc, resolver *net.Resolver, guard func(net.IP) error) DialFunc {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, common.WrapError(err, "invalid dial address")
		}

		ips, err := resolver.LookupIPAddr(ctx, host)
		if err != nil {
			return nil, common.WrapError(err, "DNS lookup failed")
		}
		for _, ip := range ips {
			if err := guard(ip.IP); err != nil {
				return nil, err
			}
		}

		lastErr := fmt.Errorf("no addresses for host %s", host)
		for _, ip := range ips {
			conn, err := base(ctx, network, net.JoinHostPort(ip.IP.String(), port))
			if err == nil {
				return conn, nil
			}
			lastErr = err
		}
		return nil, lastErr
	}
}

// Fetch performs a single GET of rawURL under the configured deadline.
// A non-2xx response is returned together with an *HTTPError.
func (c *HTTPClient) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, common.WrapError(err, "failed to create HTTP request")
	}

	for key, value := range c.config.CustomHeaders {
		req.Header.Set(key, value)
	}
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	if req.Header.Get("Accept") == "" {
		accept := c.config.Accept
		if accept == "" {
			accept = "*/*"
		}
		req.Header.Set("Accept", accept)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, NewNetworkError(rawURL, "request failed", withContextCause(ctx, err))
	}
	defer resp.Body.Close()

	result := &FetchResult{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Header:      resp.Header.Clone(),
		FinalURL:    resp.Request.URL.String(),
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug().Str("url", rawURL).Int("status_code", resp.StatusCode).Msg("Received non-2xx HTTP status")
		return result, NewHTTPErrorWithURL(resp.StatusCode, result.FinalURL)
	}

	var body io.Reader = resp.Body
	if c.config.MaxContentSize > 0 {
		body = io.LimitReader(resp.Body, int64(c.config.MaxContentSize)+1)
	}
	buf := bodyBuffers.Get()
	defer bodyBuffers.Put(buf)
	if _, err := buf.ReadFrom(body); err != nil {
		return nil, NewNetworkError(rawURL, "failed to read response body", withContextCause(ctx, err))
	}
	data := bytes.Clone(buf.Bytes())

	if c.config.MaxContentSize > 0 && len(data) > c.config.MaxContentSize {
		c.logger.Debug().
			Str("url", rawURL).
			Int("max_content_size", c.config.MaxContentSize).
			Msg("Content size exceeds limit, truncating")
		data = data[:c.config.MaxContentSize]
		result.Truncated = true
	}
	result.Body = data

	return result, nil
}

// withContextCause keeps ctx.Err() in the chain when the transport reports a
// cancelled request with its own error value.
func withContextCause(ctx context.Context, err error) error {
	ctxErr := ctx.Err()
	if ctxErr == nil || errors.Is(err, ctxErr) {
		return err
	}
	return fmt.Errorf("%w: %v", ctxErr, err)
}

// Config returns a copy of the client configuration
func (c *HTTPClient) Config() HTTPClientConfig {
	return c.config
}
