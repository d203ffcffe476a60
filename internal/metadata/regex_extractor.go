package metadata

import (
	"html"
	"regexp"
	"strings"

	"github.com/aleister1102/urlist/internal/models"
)

var (
	commentRe = regexp.MustCompile(`(?s)<!--.*?-->`)
	// A quoted attribute value may contain '>', so quoted runs are consumed whole.
	metaTagRe = regexp.MustCompile(`(?is)<meta\b((?:[^>"']|"[^"]*"|'[^']*')*)>`)
	attrRe    = regexp.MustCompile(`(?is)([a-z_:][-a-z0-9_:.]*)(?:\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'=<>` + "`" + `]+)))?`)
	titleRe   = regexp.MustCompile(`(?is)<title\b[^>]*>(.*?)</title\s*>`)
)

// RegexExtractor scans raw markup for <meta> and <title> tags without building
// a DOM. Attribute names match case-insensitively and values may use either
// quote style.
type RegexExtractor struct{}

// NewRegexExtractor creates a regex based extractor
func NewRegexExtractor() *RegexExtractor {
	return &RegexExtractor{}
}

func (RegexExtractor) Extract(body []byte) models.OpenGraphMetadata {
	doc := commentRe.ReplaceAll(body, nil)

	var tags pageTags
	for _, m := range metaTagRe.FindAllSubmatch(doc, -1) {
		attrs := parseAttributes(m[1])
		tags.setMeta(
			strings.ToLower(strings.TrimSpace(attrs["property"])),
			strings.ToLower(strings.TrimSpace(attrs["name"])),
			attrs["content"],
		)
	}

	for _, m := range titleRe.FindAllSubmatch(doc, -1) {
		tags.setTitle(html.UnescapeString(string(m[1])))
		if tags.title != "" {
			break
		}
	}

	return tags.metadata()
}

// parseAttributes returns entity-decoded attribute values keyed by lower-cased
// name. The first occurrence of a repeated attribute wins.
func parseAttributes(raw []byte) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrRe.FindAllSubmatch(raw, -1) {
		name := strings.ToLower(string(m[1]))
		if _, seen := attrs[name]; seen {
			continue
		}
		var value []byte
		switch {
		case m[2] != nil:
			value = m[2]
		case m[3] != nil:
			value = m[3]
		default:
			value = m[4]
		}
		attrs[name] = html.UnescapeString(string(value))
	}
	return attrs
}
