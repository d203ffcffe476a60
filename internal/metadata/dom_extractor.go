package metadata

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aleister1102/urlist/internal/models"
)

// DOMExtractor parses the document with goquery and reads the same tags as
// RegexExtractor. It is slower but ignores markup inside comments, scripts
// and attribute values.
type DOMExtractor struct{}

// NewDOMExtractor creates a goquery based extractor
func NewDOMExtractor() *DOMExtractor {
	return &DOMExtractor{}
}

func (DOMExtractor) Extract(body []byte) models.OpenGraphMetadata {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return models.OpenGraphMetadata{}
	}

	var tags pageTags
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		property, _ := s.Attr("property")
		name, _ := s.Attr("name")
		content, _ := s.Attr("content")
		tags.setMeta(
			strings.ToLower(strings.TrimSpace(property)),
			strings.ToLower(strings.TrimSpace(name)),
			content,
		)
	})

	doc.Find("title").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		tags.setTitle(s.Text())
		return tags.title == ""
	})

	return tags.metadata()
}
