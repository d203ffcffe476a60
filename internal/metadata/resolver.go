package metadata

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/aleister1102/urlist/internal/config"
	"github.com/aleister1102/urlist/internal/httpclient"
	"github.com/aleister1102/urlist/internal/models"
	"github.com/aleister1102/urlist/internal/urlhandler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

var htmlMediaTypes = map[string]bool{
	"text/html":             true,
	"application/xhtml+xml": true,
}

type resolverOptions struct {
	dial       httpclient.DialFunc
	tlsConfig  *tls.Config
	registerer prometheus.Registerer
	extractor  Extractor
}

// Option customizes a Resolver
type Option func(*resolverOptions)

// WithDialContext routes outbound connections through dial.
func WithDialContext(dial httpclient.DialFunc) Option {
	return func(o *resolverOptions) { o.dial = dial }
}

// WithTLSConfig sets the TLS configuration for https targets.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(o *resolverOptions) { o.tlsConfig = cfg }
}

// WithRegisterer registers the resolver metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *resolverOptions) { o.registerer = reg }
}

// WithExtractor overrides the extractor selected by the parser setting.
func WithExtractor(extractor Extractor) Option {
	return func(o *resolverOptions) { o.extractor = extractor }
}

// Resolver turns an untrusted URL into Open Graph metadata. It holds no
// per-request state and is safe for concurrent use.
type Resolver struct {
	cfg        config.MetadataConfig
	client     *httpclient.HTTPClient
	guard      *urlhandler.HostGuard
	normalizer *urlhandler.URLNormalizer
	extractor  Extractor
	metrics    *Metrics
	logger     zerolog.Logger
}

// NewResolver creates a resolver from cfg
func NewResolver(cfg config.MetadataConfig, logger zerolog.Logger, opts ...Option) (*Resolver, error) {
	var o resolverOptions
	for _, opt := range opts {
		opt(&o)
	}

	logger = logger.With().Str("component", "MetadataResolver").Logger()

	extractor := o.extractor
	if extractor == nil {
		var err error
		if extractor, err = NewExtractor(cfg.Parser); err != nil {
			return nil, err
		}
	}

	guard := urlhandler.NewHostGuard(cfg.BlockedHosts)

	builder := httpclient.NewHTTPClientBuilder(logger).
		WithTimeout(cfg.Timeout()).
		WithUserAgent(cfg.UserAgent).
		WithMaxContentSize(cfg.MaxContentSizeBytes).
		WithFollowRedirects(true).
		WithMaxRedirects(cfg.MaxRedirects).
		WithRedirectPolicy(guard.CheckURL).
		WithHTTP2(cfg.EnableHTTP2)
	if cfg.GuardResolvedAddresses {
		builder.WithAddressGuard(urlhandler.CheckIP)
	}
	for key, value := range cfg.Headers {
		builder.WithHeader(key, value)
	}
	if o.dial != nil {
		builder.WithDialContext(o.dial)
	}
	if o.tlsConfig != nil {
		builder.WithTLSConfig(o.tlsConfig)
	}

	client, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build metadata HTTP client: %w", err)
	}

	return &Resolver{
		cfg:    cfg,
		client: client,
		guard:  guard,
		normalizer: urlhandler.NewURLNormalizer(urlhandler.URLNormalizationConfig{
			StripFragments:      true,
			StripTrackingParams: cfg.StripTrackingParams,
			CustomStripParams:   cfg.StripParams,
		}),
		extractor: extractor,
		metrics:   NewMetrics(o.registerer),
		logger:    logger,
	}, nil
}

// Resolve validates rawURL, fetches it and extracts its metadata. No network
// I/O happens unless the URL passes the scheme and host checks.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (models.OpenGraphMetadata, error) {
	start := time.Now()
	meta, err := r.resolve(ctx, rawURL)
	kind := KindOf(err)
	r.metrics.observe(kind, time.Since(start))

	event := r.logger.Debug()
	if kind == KindInternal {
		event = r.logger.Warn()
	}
	event.
		Str("url", rawURL).
		Str("result", string(kind)).
		Dur("duration", time.Since(start)).
		Err(err).
		Msg("Resolved metadata")

	return meta, err
}

func (r *Resolver) resolve(ctx context.Context, rawURL string) (models.OpenGraphMetadata, error) {
	target, err := urlhandler.ParseTarget(rawURL, r.normalizer)
	if err != nil {
		return models.OpenGraphMetadata{}, err
	}

	if err := r.guard.CheckHost(target.Hostname); err != nil {
		return models.OpenGraphMetadata{}, err
	}

	result, err := r.client.Fetch(ctx, target.NormalizedURL)
	if err != nil {
		return models.OpenGraphMetadata{}, r.classifyFetchError(target, err)
	}
	r.metrics.observeBody(len(result.Body))

	if r.cfg.RequireHTML {
		if err := checkContentType(result.ContentType); err != nil {
			return models.OpenGraphMetadata{}, err
		}
	}

	meta := r.extractor.Extract(result.Body)
	if meta.URL == "" && r.cfg.DefaultCanonicalURL {
		meta.URL = result.FinalURL
	}
	return meta, nil
}

func (r *Resolver) classifyFetchError(target urlhandler.ParsedTarget, err error) error {
	var httpErr *httpclient.HTTPError
	switch {
	case errors.Is(err, ErrForbiddenScheme), errors.Is(err, ErrForbiddenHost):
		return fmt.Errorf("redirect refused: %w", err)
	case httpclient.IsTimeout(err):
		return fmt.Errorf("%w: %s", ErrTimeout, target.NormalizedURL)
	case errors.Is(err, context.Canceled):
		return err
	case errors.As(err, &httpErr):
		return &UpstreamError{StatusCode: httpErr.StatusCode, URL: target.NormalizedURL, Err: err}
	default:
		return &UpstreamError{URL: target.NormalizedURL, Err: err}
	}
}

func checkContentType(contentType string) error {
	if strings.TrimSpace(contentType) == "" {
		return fmt.Errorf("%w: missing Content-Type", ErrUnsupportedContentType)
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
	}
	if !htmlMediaTypes[mediaType] {
		return fmt.Errorf("%w: %s", ErrUnsupportedContentType, mediaType)
	}
	return nil
}
