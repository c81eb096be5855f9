package processors

import (
	"context"
	"os"
	"strings"

	"github.com/athapong/kg-extract/pkg/graph"
	"github.com/jdkato/prose/v2"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var processingDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "nlp_processing_duration_seconds",
		Help: "Time spent parsing documents",
	},
	[]string{"parser"},
)

func init() {
	prometheus.MustRegister(processingDuration)
}

const ParserProse = "prose"

// ProseParser tokenizes, tags and extracts entities with prose, then derives
// a shallow dependency parse from the tags (see Annotate).
//
// Construction loads the tagging and NER models once; reuse the parser.
type ProseParser struct {
	model  *prose.Model
	logger *logrus.Logger
}

// NewProseParser creates a prose-backed parser. modelDir optionally points at
// a custom NER model saved with prose's Model.Write; empty uses the bundled
// model. Any model loading failure is returned here, not at Parse time.
func NewProseParser(modelDir string) (*ProseParser, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	p := &ProseParser{logger: logger}

	if modelDir != "" {
		info, err := os.Stat(modelDir)
		if err != nil {
			return nil, errors.Wrapf(err, "prose model directory %q", modelDir)
		}
		if !info.IsDir() {
			return nil, errors.Errorf("prose model path %q is not a directory", modelDir)
		}
		p.model = prose.ModelFromDisk(modelDir)
	}

	if _, err := p.newDocument("Models load once."); err != nil {
		return nil, errors.Wrap(err, "failed to load prose models")
	}

	return p, nil
}

// WithLogger replaces the parser's logger
func (p *ProseParser) WithLogger(logger *logrus.Logger) *ProseParser {
	p.logger = logger
	return p
}

func (p *ProseParser) Name() string {
	return ParserProse
}

func (p *ProseParser) newDocument(text string) (*prose.Document, error) {
	if p.model != nil {
		return prose.NewDocument(text, prose.UsingModel(p.model))
	}
	return prose.NewDocument(text)
}

// Parse implements graph.Parser
func (p *ProseParser) Parse(ctx context.Context, text string) (*graph.Document, error) {
	timer := prometheus.NewTimer(processingDuration.WithLabelValues(ParserProse))
	defer timer.ObserveDuration()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.logger.WithField("content_length", len(text)).Debug("Starting prose parsing")

	doc, err := p.newDocument(text)
	if err != nil {
		p.logger.WithError(err).Error("Failed to create prose document")
		return nil, errors.Wrap(err, "failed to create prose document")
	}

	proseTokens := doc.Tokens()
	tokens := make([]graph.Token, len(proseTokens))
	cursor := 0
	for i, tok := range proseTokens {
		start, end := locate(text, tok.Text, cursor)
		if end > cursor {
			cursor = end
		}
		tokens[i] = graph.Token{
			Text:  tok.Text,
			Tag:   tok.Tag,
			Start: start,
			End:   end,
		}
	}
	Annotate(tokens)

	spans := entitySpans(text, doc.Entities())

	p.logger.WithFields(logrus.Fields{
		"tokens_count":   len(tokens),
		"entities_count": len(spans),
	}).Debug("Prose parsing completed")

	return graph.NewDocument(text, tokens, spans), nil
}

// entitySpans locates each entity in text, searching after the previous
// one so repeated texts get their own offsets. An entity not found after
// the cursor falls back to its first occurrence.
func entitySpans(text string, entities []prose.Entity) []graph.Span {
	spans := make([]graph.Span, 0, len(entities))
	cursor := 0
	for _, ent := range entities {
		start, end := locate(text, ent.Text, cursor)
		if start < 0 {
			start, end = locate(text, ent.Text, 0)
		} else {
			cursor = end
		}
		spans = append(spans, graph.Span{
			Text:  ent.Text,
			Label: ent.Label,
			Start: start,
			End:   end,
		})
	}
	return spans
}

// locate finds needle in text at or after from and returns its byte
// offsets, or -1, -1 when it does not occur.
func locate(text, needle string, from int) (int, int) {
	if needle == "" || from > len(text) {
		return -1, -1
	}
	idx := strings.Index(text[from:], needle)
	if idx < 0 {
		return -1, -1
	}
	return from + idx, from + idx + len(needle)
}
