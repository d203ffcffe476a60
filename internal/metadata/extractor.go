package metadata

import (
	"fmt"
	"strings"

	"github.com/aleister1102/urlist/internal/config"
	"github.com/aleister1102/urlist/internal/models"
)

// Extractor pulls Open Graph metadata out of an HTML document. Missing tags
// are not an error; an Extractor never fails.
type Extractor interface {
	Extract(body []byte) models.OpenGraphMetadata
}

// NewExtractor returns the extractor registered under parser ("regex" or "dom").
// An empty name selects the regex scanner.
func NewExtractor(parser string) (Extractor, error) {
	switch strings.ToLower(strings.TrimSpace(parser)) {
	case "", config.ParserRegex:
		return NewRegexExtractor(), nil
	case config.ParserDOM:
		return NewDOMExtractor(), nil
	default:
		return nil, fmt.Errorf("%w: unknown parser %q", ErrInvalidInput, parser)
	}
}

// pageTags holds the first non-empty value seen for each tag of interest.
type pageTags struct {
	ogTitle         string
	ogDescription   string
	ogImage         string
	ogURL           string
	metaDescription string
	title           string
}

// setMeta records a <meta> tag. key is the property (or name) value, lower-cased.
func (p *pageTags) setMeta(property, name, content string) {
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}

	key := property
	if key == "" {
		key = name
	}
	switch key {
	case "og:title":
		setOnce(&p.ogTitle, content)
	case "og:description":
		setOnce(&p.ogDescription, content)
	case "og:image", "og:image:url":
		setOnce(&p.ogImage, content)
	case "og:url":
		setOnce(&p.ogURL, content)
	}

	if name == "description" {
		setOnce(&p.metaDescription, content)
	}
}

func (p *pageTags) setTitle(title string) {
	setOnce(&p.title, strings.TrimSpace(title))
}

func setOnce(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}

// metadata applies the fallbacks: og:title over <title>, og:description over
// <meta name="description">. Image and URL have no fallback here.
func (p pageTags) metadata() models.OpenGraphMetadata {
	meta := models.OpenGraphMetadata{
		Title:       p.ogTitle,
		Description: p.ogDescription,
		Image:       p.ogImage,
		URL:         p.ogURL,
	}
	if meta.Title == "" {
		meta.Title = p.title
	}
	if meta.Description == "" {
		meta.Description = p.metaDescription
	}
	return meta
}
