package processors

import (
	"bytes"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

// HTMLExtractor turns an HTML page into the plain text of its body.
type HTMLExtractor struct{}

// NewHTMLExtractor creates a new instance of HTMLExtractor.
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Extract returns the whitespace-normalized text of the body element.
func (e *HTMLExtractor) Extract(ctx context.Context, content []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", errors.Wrap(err, "failed to create document from HTML content")
	}

	body := doc.Find("body")
	body.Find("script, style, noscript").Remove()

	return strings.Join(strings.Fields(body.Text()), " "), nil
}

// SupportedTypes returns the file extensions handled by the HTMLExtractor.
func (e *HTMLExtractor) SupportedTypes() []string {
	return []string{".html", ".htm"}
}
