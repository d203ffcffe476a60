package urlhandler

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/aleister1102/urlist/internal/common"
)

// ParsedTarget is a validated, normalized fetch target.
type ParsedTarget struct {
	OriginalURL   string
	Scheme        string
	Hostname      string
	NormalizedURL string
}

// ParseTarget validates rawURL lexically and normalizes it. It returns an error
// wrapping common.ErrInvalidInput when rawURL is empty or unparseable and
// ErrForbiddenScheme when the scheme is missing or not http(s). The host is
// not checked here; see HostGuard.
func ParseTarget(rawURL string, normalizer *URLNormalizer) (ParsedTarget, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return ParsedTarget{}, fmt.Errorf("%w: URL is empty", common.ErrInvalidInput)
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return ParsedTarget{}, fmt.Errorf("%w: could not parse URL: %v", common.ErrInvalidInput, err)
	}

	if err := CheckScheme(parsed.Scheme); err != nil {
		return ParsedTarget{}, err
	}

	if parsed.Hostname() == "" {
		return ParsedTarget{}, fmt.Errorf("%w: URL lacks a hostname", common.ErrInvalidInput)
	}

	if normalizer == nil {
		normalizer = NewURLNormalizer(DefaultURLNormalizationConfig())
	}
	normalized := normalizer.Normalize(parsed)

	return ParsedTarget{
		OriginalURL:   rawURL,
		Scheme:        normalized.Scheme,
		Hostname:      CanonicalHostname(normalized.Hostname()),
		NormalizedURL: normalized.String(),
	}, nil
}

// CheckScheme accepts only http and https, case-insensitively.
func CheckScheme(scheme string) error {
	switch strings.ToLower(scheme) {
	case "http", "https":
		return nil
	case "":
		return fmt.Errorf("%w: missing scheme", ErrForbiddenScheme)
	default:
		return fmt.Errorf("%w: %q", ErrForbiddenScheme, strings.ToLower(scheme))
	}
}
