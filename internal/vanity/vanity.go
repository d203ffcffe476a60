// Package vanity generates and validates the short slugs bundles are published under.
package vanity

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/aleister1102/urlist/internal/common"
)

const (
	alphabet  = "abcdefghijklmnopqrstuvwxyz0123456789"
	MinLength = 3
	MaxLength = 50
)

// ErrExhausted is returned when no free slug was found within the attempt budget.
var ErrExhausted = errors.New("no available vanity URL found")

// Single hyphens between alphanumeric runs; no leading, trailing or doubled hyphens.
var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Normalize trims and lower-cases a slug. Slugs are stored lower-case.
func Normalize(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

// Validate checks a normalized slug
func Validate(slug string) error {
	if len(slug) < MinLength || len(slug) > MaxLength {
		return common.NewValidationError("vanity_url", slug, fmt.Sprintf("must be between %d and %d characters", MinLength, MaxLength))
	}
	if !slugRe.MatchString(slug) {
		return common.NewValidationError("vanity_url", slug, "may contain only letters, digits and single hyphens")
	}
	return nil
}

// Generate returns a random slug of length characters from [a-z0-9]
func Generate(length int) (string, error) {
	if length < MinLength || length > MaxLength {
		return "", common.NewValidationError("length", length, "out of range")
	}

	radix := big.NewInt(int64(len(alphabet)))
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, radix)
		if err != nil {
			return "", common.WrapError(err, "failed to read random bytes")
		}
		b.WriteByte(alphabet[n.Int64()])
	}
	return b.String(), nil
}

// AvailabilityFunc reports whether slug is unused
type AvailabilityFunc func(ctx context.Context, slug string) (bool, error)

// GenerateAvailable draws slugs until available accepts one or attempts run out
func GenerateAvailable(ctx context.Context, length, attempts int, available AvailabilityFunc) (string, error) {
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		slug, err := Generate(length)
		if err != nil {
			return "", err
		}
		ok, err := available(ctx, slug)
		if err != nil {
			return "", common.WrapError(err, "failed to check vanity URL availability")
		}
		if ok {
			return slug, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrExhausted, attempts)
}
