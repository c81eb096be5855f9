package processors

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// TextExtractor turns raw file content into plain text for parsing
type TextExtractor interface {
	Extract(ctx context.Context, content []byte) (string, error)
	SupportedTypes() []string
}

// PlainTextExtractor passes content through unchanged
type PlainTextExtractor struct{}

func (e *PlainTextExtractor) Extract(ctx context.Context, content []byte) (string, error) {
	return string(content), nil
}

func (e *PlainTextExtractor) SupportedTypes() []string {
	return []string{".txt", ".md", ".json"}
}

// ExtractorFor picks the extractor for path by file extension; unknown
// extensions are read as plain text.
func ExtractorFor(path string) TextExtractor {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range []TextExtractor{NewHTMLExtractor(), NewPDFExtractor()} {
		for _, supported := range e.SupportedTypes() {
			if ext == supported {
				return e
			}
		}
	}
	return &PlainTextExtractor{}
}

// ReadInput reads the file at path and returns its text content
func ReadInput(ctx context.Context, path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", path)
	}
	return ExtractorFor(path).Extract(ctx, content)
}
