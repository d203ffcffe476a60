package metadata

import (
	"context"
	"errors"
	"fmt"

	"github.com/aleister1102/urlist/internal/common"
	"github.com/aleister1102/urlist/internal/urlhandler"
)

var (
	// ErrInvalidInput means the URL was empty or could not be parsed.
	ErrInvalidInput = common.ErrInvalidInput
	// ErrForbiddenScheme means the URL, or a redirect target, is not http(s).
	ErrForbiddenScheme = urlhandler.ErrForbiddenScheme
	// ErrForbiddenHost means the URL, or a redirect target, points at an internal host.
	ErrForbiddenHost = urlhandler.ErrForbiddenHost
	// ErrTimeout means the fetch did not complete before its deadline.
	ErrTimeout = errors.New("metadata fetch timed out")
	// ErrUnsupportedContentType means the response was not declared as HTML.
	ErrUnsupportedContentType = errors.New("unsupported content type")
)

// UpstreamError reports a failed fetch. StatusCode is 0 when no response was received.
type UpstreamError struct {
	StatusCode int
	URL        string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("upstream %s returned status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("upstream %s request failed: %v", e.URL, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Kind labels a resolver failure for logs, metrics and HTTP mapping.
type Kind string

const (
	KindNone                   Kind = "ok"
	KindInvalidInput           Kind = "invalid_input"
	KindForbiddenScheme        Kind = "forbidden_scheme"
	KindForbiddenHost          Kind = "forbidden_host"
	KindTimeout                Kind = "timeout"
	KindUpstream               Kind = "upstream"
	KindUnsupportedContentType Kind = "unsupported_content_type"
	KindCanceled               Kind = "canceled"
	KindInternal               Kind = "internal"
)

// KindOf classifies err. Refusals are checked before upstream errors so a
// redirect to an internal host is reported as forbidden, not as a fetch failure.
func KindOf(err error) Kind {
	var upstream *UpstreamError
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrForbiddenScheme):
		return KindForbiddenScheme
	case errors.Is(err, ErrForbiddenHost):
		return KindForbiddenHost
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrUnsupportedContentType):
		return KindUnsupportedContentType
	case errors.As(err, &upstream):
		return KindUpstream
	case errors.Is(err, context.Canceled):
		return KindCanceled
	default:
		return KindInternal
	}
}
