package processors

import (
	"bytes"
	"context"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pkg/errors"
)

type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract concatenates the plain text of every readable page. Pages that
// fail to decode are skipped.
func (e *PDFExtractor) Extract(ctx context.Context, content []byte) (string, error) {
	reader := bytes.NewReader(content)

	r, err := pdf.NewReader(reader, int64(len(content)))
	if err != nil {
		return "", errors.Wrap(err, "failed to open PDF")
	}

	var sb strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		p := r.Page(pageIndex)
		if p.V.IsNull() {
			continue
		}

		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
	}

	return sb.String(), nil
}

func (e *PDFExtractor) SupportedTypes() []string {
	return []string{".pdf"}
}
