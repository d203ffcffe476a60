package urlhandler

import "errors"

var (
	// ErrForbiddenScheme means the URL scheme is not http or https.
	ErrForbiddenScheme = errors.New("forbidden URL scheme")
	// ErrForbiddenHost means the host is loopback, private, link-local, unspecified or blocklisted.
	ErrForbiddenHost = errors.New("forbidden host")
)
